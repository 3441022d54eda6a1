package controller

import (
	"ai-stylist-be/internal/dto"
	"ai-stylist-be/internal/pkg/serverutils"
	"ai-stylist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILookbookController interface {
	RegisterRoutes(r fiber.Router)
	Share(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type lookbookController struct {
	service service.ILookbookService
}

func NewLookbookController(service service.ILookbookService) ILookbookController {
	return &lookbookController{service: service}
}

func (c *lookbookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/lookbook/v1")
	h.Post("/share", c.Share)
	h.Get(":id", c.Show)
}

func (c *lookbookController) Share(ctx *fiber.Ctx) error {
	var req dto.ShareLookbookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Share(ctx.Context(), req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success share lookbook", res))
}

func (c *lookbookController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Get(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get lookbook", res))
}
