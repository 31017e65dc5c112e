package controller

import (
	"workspace-be/internal/dto"
	"workspace-be/internal/entity"
	"workspace-be/internal/pkg/serverutils"
	"workspace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router)
	GetTree(ctx *fiber.Ctx) error
	AddItem(ctx *fiber.Ctx) error
	DeleteItem(ctx *fiber.Ctx) error
	GetCategory(ctx *fiber.Ctx) error
}

type workspaceController struct {
	workspaceService service.IWorkspaceService
	auth             fiber.Handler
}

func NewWorkspaceController(workspaceService service.IWorkspaceService, auth fiber.Handler) IWorkspaceController {
	return &workspaceController{
		workspaceService: workspaceService,
		auth:             auth,
	}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workspace/v1")
	h.Use(c.auth)
	h.Get("", c.GetTree)
	h.Post("items", c.AddItem)
	h.Delete("items/:id", c.DeleteItem)
	h.Get("containers/:id/category", c.GetCategory)
}

func (c *workspaceController) GetTree(ctx *fiber.Ctx) error {
	res := c.workspaceService.GetTree(ctx.UserContext())
	return ctx.JSON(serverutils.SuccessResponse("Success get workspace", res))
}

func (c *workspaceController) AddItem(ctx *fiber.Ctx) error {
	var req dto.AddItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.workspaceService.AddItem(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add item", res))
}

// DeleteItem requires confirm=true; the client is expected to have asked
// the user before issuing it.
func (c *workspaceController) DeleteItem(ctx *fiber.Ctx) error {
	req := dto.DeleteItemRequest{
		Id:             ctx.Params("id"),
		Type:           entity.ItemKind(ctx.Query("type")),
		ParentFolderId: ctx.Query("parentFolderId"),
		Confirm:        ctx.QueryBool("confirm", false),
	}
	if !req.Confirm {
		return fiber.NewError(fiber.StatusBadRequest, "Deletion must be confirmed with confirm=true")
	}

	if err := c.workspaceService.DeleteItem(ctx.UserContext(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete item", nil))
}

func (c *workspaceController) GetCategory(ctx *fiber.Ctx) error {
	res, err := c.workspaceService.GetCategory(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success classify container", res))
}
