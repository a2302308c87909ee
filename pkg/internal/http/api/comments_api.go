package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapit-app/server/pkg/internal/database"
	"github.com/snapit-app/server/pkg/internal/http/exts"
	"github.com/snapit-app/server/pkg/internal/models"
	"github.com/snapit-app/server/pkg/internal/services"
)

func addComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("postId", 0)

	var data struct {
		Content string `json:"content" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return remapError(err)
	}

	comment, err := services.AddComment(user, item, data.Content)
	if err != nil {
		return remapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func deleteComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	postID, _ := c.ParamsInt("postId", 0)
	commentID, _ := c.ParamsInt("commentId", 0)

	if err := services.DeleteComment(user, uint(postID), uint(commentID)); err != nil {
		return remapError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}
