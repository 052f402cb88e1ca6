package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/response"
	"github.com/videotube/videotube/internal/storage"
	"github.com/videotube/videotube/pkg/logger"
)

// fail writes err as an error envelope. Server errors are logged with their
// cause, which never reaches the client.
func fail(c *gin.Context, log *logger.Logger, err error) {
	result := response.Err(err)
	if apperr.KindOf(err) == apperr.KindServer {
		log.WithError(err).WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
	}
	result.Write(c)
}

// formFile opens an uploaded file. It returns nil without error when the
// field is absent; the caller closes the returned file.
func formFile(c *gin.Context, field string) (*storage.File, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, nil
		}
		return nil, nil, apperr.BadRequest("Invalid multipart form")
	}

	src, err := header.Open()
	if err != nil {
		return nil, nil, apperr.Server("Failed to read upload", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		buffer := make([]byte, 512)
		n, _ := src.Read(buffer)
		contentType = http.DetectContentType(buffer[:n])
		if _, err := src.Seek(0, 0); err != nil {
			src.Close()
			return nil, nil, apperr.Server("Failed to read upload", err)
		}
	}

	return &storage.File{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: contentType,
		Body:        src,
	}, src, nil
}

func closeFile(f multipart.File) {
	if f != nil {
		_ = f.Close()
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}

// LimitBody caps request bodies at max bytes.
func LimitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}
