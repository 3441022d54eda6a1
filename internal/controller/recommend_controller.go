package controller

import (
	"ai-stylist-be/internal/dto"
	"ai-stylist-be/internal/pkg/serverutils"
	"ai-stylist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRecommendController interface {
	RegisterRoutes(r fiber.Router)
	Next(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
	Select(ctx *fiber.Ctx) error
	Final(ctx *fiber.Ctx) error
}

type recommendController struct {
	service service.IRecommendService
}

func NewRecommendController(service service.IRecommendService) IRecommendController {
	return &recommendController{service: service}
}

func (c *recommendController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/recommend/v1")
	h.Post("/next", c.Next)
	h.Post("/feedback", c.Feedback)
	h.Post("/select", c.Select)
	h.Get(":session_id/final", c.Final)
}

func (c *recommendController) Next(ctx *fiber.Ctx) error {
	var req dto.SessionIdRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Next(ctx.Context(), req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get recommendation", res))
}

func (c *recommendController) Feedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.Feedback(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success apply feedback", nil))
}

func (c *recommendController) Select(ctx *fiber.Ctx) error {
	var req dto.SelectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Select(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success select item", res))
}

func (c *recommendController) Final(ctx *fiber.Ctx) error {
	res, err := c.service.Final(ctx.Context(), ctx.Params("session_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get final selections", res))
}
