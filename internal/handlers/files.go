package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ikonbethel/alx-files-manager/internal/middleware"
	"github.com/ikonbethel/alx-files-manager/internal/models"
	"github.com/ikonbethel/alx-files-manager/internal/repository"
	"github.com/ikonbethel/alx-files-manager/internal/services"
	"github.com/ikonbethel/alx-files-manager/pkg/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FilesHandler struct {
	Files     services.FileStore
	Upload    *services.UploadService
	Retrieval *services.RetrievalService
}

func NewFilesHandler(files services.FileStore, upload *services.UploadService, retrieval *services.RetrievalService) *FilesHandler {
	return &FilesHandler{Files: files, Upload: upload, Retrieval: retrieval}
}

type uploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Data     string `json:"data"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
}

// PostUpload hands the request to the upload pipeline, which owns token
// resolution, validation and persistence. The handler only maps errors onto
// the HTTP surface.
func (h *FilesHandler) PostUpload(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Missing name")
	}

	entry, err := h.Upload.Upload(c.Context(), c.Get(middleware.TokenHeader), services.UploadRequest{
		Name:     req.Name,
		Type:     req.Type,
		Data:     req.Data,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
	})

	switch {
	case err == nil:
	case errors.Is(err, services.ErrUnauthorized):
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrMissingName):
		return utils.Error(c, fiber.StatusBadRequest, "Missing name")
	case errors.Is(err, services.ErrMissingType):
		return utils.Error(c, fiber.StatusBadRequest, "Missing type")
	case errors.Is(err, services.ErrMissingData), errors.Is(err, services.ErrInvalidData):
		return utils.Error(c, fiber.StatusBadRequest, "Missing data")
	case errors.Is(err, repository.ErrParentNotFound):
		return utils.Error(c, fiber.StatusBadRequest, "Parent not found")
	case errors.Is(err, repository.ErrParentNotAFolder):
		return utils.Error(c, fiber.StatusBadRequest, "Parent is not a folder")
	default:
		return utils.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(entry.Response())
}

func (h *FilesHandler) GetShow(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	fileID, err := parseObjectID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Not found")
	}

	entry, err := h.Files.GetOwned(c.Context(), fileID, user.ID)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading file")
	}
	if entry == nil {
		return utils.Error(c, fiber.StatusNotFound, "Not found")
	}

	return c.Status(fiber.StatusOK).JSON(entry.Response())
}

// GetIndex lists one page of the caller's entries under a parent folder.
// An unknown or malformed parent matches nothing and yields an empty page.
func (h *FilesHandler) GetIndex(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	page := int64(c.QueryInt("page", 0))

	parentID := primitive.NilObjectID
	if raw := c.Query("parentId"); raw != "" && raw != models.RootParent {
		parsed, err := parseObjectID(raw)
		if err != nil {
			return c.Status(fiber.StatusOK).JSON([]models.FileResponse{})
		}
		parentID = parsed
	}

	entries, err := h.Files.List(c.Context(), user.ID, parentID, page)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing files")
	}

	responses := make([]models.FileResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, entries[i].Response())
	}
	return c.Status(fiber.StatusOK).JSON(responses)
}

func (h *FilesHandler) PutPublish(c *fiber.Ctx) error {
	return h.setVisibility(c, true)
}

func (h *FilesHandler) PutUnpublish(c *fiber.Ctx) error {
	return h.setVisibility(c, false)
}

func (h *FilesHandler) setVisibility(c *fiber.Ctx, isPublic bool) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	fileID, err := parseObjectID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusNotFound, "Not found")
	}

	entry, err := h.Files.SetVisibility(c.Context(), fileID, user.ID, isPublic)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating file")
	}
	if entry == nil {
		return utils.Error(c, fiber.StatusNotFound, "Not found")
	}

	return c.Status(fiber.StatusOK).JSON(entry.Response())
}

// GetData streams the entry's bytes, or the requested thumbnail width for
// images. NotFound and Forbidden collapse to the same 404 on purpose.
func (h *FilesHandler) GetData(c *fiber.Ctx) error {
	data, contentType, err := h.Retrieval.Fetch(
		c.Context(),
		c.Params("id"),
		c.Get(middleware.TokenHeader),
		c.Query("size"),
	)

	switch {
	case err == nil:
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrForbidden):
		return utils.Error(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrIsFolder):
		return utils.Error(c, fiber.StatusNotFound, "A folder doesn't have content")
	case errors.Is(err, services.ErrThumbnailMissing):
		return utils.Error(c, fiber.StatusInternalServerError, "Thumbnail not generated")
	case errors.Is(err, services.ErrUnknownMimeType):
		return utils.Error(c, fiber.StatusInternalServerError, "Unable to determine MIME type")
	default:
		return utils.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(fiber.StatusOK).Send(data)
}
