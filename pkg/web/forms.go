package web

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/showcase/pkg/contact"
	"github.com/teslashibe/showcase/pkg/hub"
)

// submitRequest is a form body: JSON, urlencoded or multipart.
type submitRequest struct {
	AppID       string `json:"appId" form:"appId"`
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	Message     string `json:"message" form:"message"`
	Description string `json:"description" form:"description"`
	Severity    string `json:"severity" form:"severity"`
}

func (r *submitRequest) fields() [][2]string {
	return [][2]string{
		{contact.FieldAppID, r.AppID},
		{contact.FieldName, r.Name},
		{contact.FieldEmail, r.Email},
		{contact.FieldPhone, r.Phone},
		{contact.FieldMessage, r.Message},
		{contact.FieldDescription, r.Description},
		{contact.FieldSeverity, r.Severity},
	}
}

// handleSubmit accepts a form of kind. A ":id" path parameter locks the project.
func (s *Server) handleSubmit(kind contact.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locked := c.Params("id")
		if locked != "" {
			if _, ok := s.catalog.Catalog().Get(locked); !ok {
				return fiber.NewError(fiber.StatusNotFound, "project not found")
			}
		}

		var req submitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed form body")
		}

		draft := contact.NewDraft(kind, locked)
		for _, f := range req.fields() {
			if f[1] == "" {
				continue
			}
			if err := draft.Set(f[0], f[1]); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		if kind == contact.KindBugReport {
			att, err := attachmentOf(c)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "unreadable attachment")
			}
			draft.SetAttachment(att)
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), s.cfg.SubmitTimeout)
		defer cancel()

		receipt, err := draft.Submit(ctx, s.forms)
		if err != nil {
			var verr *contact.ValidationError
			if errors.As(err, &verr) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"status": "error",
					"error":  draft.Message(),
					"fields": verr.Fields,
				})
			}
			if errors.Is(err, contact.ErrSubmission) {
				return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
					"status": "error",
					"error":  draft.Message(),
				})
			}
			return err
		}

		s.publish(hub.Event{
			Type:       hub.EventSubmission,
			Kind:       string(receipt.Kind),
			Collection: receipt.Collection,
			AppID:      receipt.AppID,
			At:         receipt.CreatedAt,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  "success",
			"message": draft.Message(),
			"receipt": receipt,
		})
	}
}

// attachmentOf reads the optional multipart "attachment" file.
func attachmentOf(c *fiber.Ctx) (*contact.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Not multipart: no attachment.
		return nil, nil
	}
	files := form.File[contact.FieldAttachment]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	return &contact.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
