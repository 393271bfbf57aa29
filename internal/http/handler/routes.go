package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"csvapi/internal/service"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, store Pinger, fileSvc service.FileService) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	app.Post("/upload", UploadFile(fileSvc))
	app.Get("/files", ListFiles(fileSvc))
	app.Post("/query", QueryFile(fileSvc))
	app.Post("/ask", AskFile(fileSvc))
	app.Delete("/file/:file_id", DeleteFile(fileSvc))
	app.Get("/content/:file_id", GetContent(fileSvc))
}

// HealthCheck godoc
// @Summary Readiness probe
// @Description Pings the document store.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.JSON(HealthResponse{Status: "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadFile godoc
// @Summary Upload a CSV file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file, name must end in .csv"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /upload [post]
func UploadFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		id, err := fileSvc.Upload(c.UserContext(), f, fh.Filename)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(UploadResponse{FileID: id, Message: "Upload successful"})
	}
}

// ListFiles godoc
// @Summary List stored files with their raw content
// @Tags files
// @Produce json
// @Success 200 {array} model.FileRecord
// @Failure 500 {object} errorPayload
// @Router /files [get]
func ListFiles(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := fileSvc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(files)
	}
}

// QueryFile godoc
// @Summary Filter a file's rows with a pandas-style expression
// @Description Filter errors are returned with status 200 and is_error set.
// @Tags files
// @Accept json
// @Produce json
// @Param request body QueryRequest true "file id and filter expression"
// @Success 200 {object} TextResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /query [post]
func QueryFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req QueryRequest
		if ok, err := parseBody(c, &req); !ok {
			return err
		}

		res, err := fileSvc.Query(c.UserContext(), req.FileID, req.Query)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(TextResponse{Response: res.Text, IsError: res.Failed})
	}
}

// AskFile godoc
// @Summary Ask a question about a file
// @Description The answer comes from a language model. Generation failures are returned with status 200 and is_error set.
// @Tags files
// @Accept json
// @Produce json
// @Param request body AskRequest true "file id and question"
// @Success 200 {object} TextResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /ask [post]
func AskFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req AskRequest
		if ok, err := parseBody(c, &req); !ok {
			return err
		}

		res, err := fileSvc.Ask(c.UserContext(), req.FileID, req.Question)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(TextResponse{Response: res.Text, IsError: res.Failed})
	}
}

// DeleteFile godoc
// @Summary Delete a file
// @Tags files
// @Produce json
// @Param file_id path string true "file id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /file/{file_id} [delete]
func DeleteFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := fileSvc.Delete(c.UserContext(), c.Params("file_id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(MessageResponse{Message: "File deleted successfully"})
	}
}

// GetContent godoc
// @Summary Get a file's content rendered as a table
// @Description Content that is not valid CSV is returned unchanged.
// @Tags files
// @Produce json
// @Param file_id path string true "file id"
// @Success 200 {object} ContentResponse
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /content/{file_id} [get]
func GetContent(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		text, err := fileSvc.Content(c.UserContext(), c.Params("file_id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(ContentResponse{Response: text})
	}
}

type validatable interface {
	Validate() error
}

// parseBody decodes the JSON body into req and validates it.
// When ok is false a 400 response has been written and err is the write result.
func parseBody(c *fiber.Ctx, req validatable) (ok bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
	}
	if err := req.Validate(); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", err.Error())
	}
	return true, nil
}
