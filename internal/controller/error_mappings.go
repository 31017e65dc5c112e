package controller

import (
	"workspace-be/internal/dto"
	"workspace-be/internal/entity"
	"workspace-be/internal/pkg/serverutils"
	"workspace-be/internal/repository/contract"
	"workspace-be/internal/service"
	"workspace-be/pkg/workspace"

	"github.com/gofiber/fiber/v2"
)

// ErrorMappings translates domain errors for serverutils.ErrorHandlerMiddleware.
var ErrorMappings = []serverutils.StatusMapping{
	{Err: workspace.ErrParentNotFound, Code: fiber.StatusNotFound},
	{Err: workspace.ErrItemNotFound, Code: fiber.StatusNotFound},
	{Err: contract.ErrNoteNotFound, Code: fiber.StatusNotFound},
	{Err: workspace.ErrDuplicateId, Code: fiber.StatusConflict},
	{Err: workspace.ErrUnknownKind, Code: fiber.StatusBadRequest},
	{Err: workspace.ErrParentMismatch, Code: fiber.StatusBadRequest},
	{Err: dto.ErrMalformedItem, Code: fiber.StatusBadRequest},
	{Err: entity.ErrBlockShape, Code: fiber.StatusBadRequest},
	{Err: service.ErrTitleRequired, Code: fiber.StatusBadRequest},
	{Err: service.ErrConfirmationRequired, Code: fiber.StatusBadRequest},
}
