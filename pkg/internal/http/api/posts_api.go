package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/snapit-app/server/pkg/internal/conf"
	"github.com/snapit-app/server/pkg/internal/database"
	"github.com/snapit-app/server/pkg/internal/http/exts"
	"github.com/snapit-app/server/pkg/internal/models"
	"github.com/snapit-app/server/pkg/internal/services"
)

func createPost(cfg *conf.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := exts.EnsureAuthenticated(c); err != nil {
			return err
		}
		user := c.Locals("user").(models.Account)

		title := c.FormValue("title")
		description := c.FormValue("description")
		var tags []string
		if raw := c.FormValue("tags"); len(raw) > 0 {
			tags = lo.Map(strings.Split(raw, ","), func(tag string, _ int) string {
				return strings.TrimSpace(tag)
			})
		}

		artifacts, err := uploadFormImages(c, "images", cfg.Storage.Folder)
		if err != nil {
			return err
		}

		item, err := services.NewPost(user, title, description, tags, artifacts)
		if err != nil {
			services.ReleaseArtifacts(artifactIdx(artifacts))
			return remapError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

func listAllPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	count, err := services.CountPost(database.C)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPost(database.C, take, offset, "created_at DESC")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if user, authenticated := c.Locals("user").(models.Account); authenticated {
		services.MarkLiked(items, user.ID)
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func getPost(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return remapError(err)
	}

	if user, authenticated := c.Locals("user").(models.Account); authenticated {
		services.MarkLiked([]*models.Post{&item}, user.ID)
	}

	return c.JSON(item)
}

func updatePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("postId", 0)

	var data struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return remapError(err)
	}

	item, err = services.EditPost(user, item, data.Title, data.Description, data.Tags)
	if err != nil {
		return remapError(err)
	}

	return c.JSON(item)
}

func deletePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("postId", 0)

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return remapError(err)
	}

	if err := services.DeletePost(user, item); err != nil {
		return remapError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func reactToPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("postId", 0)

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return remapError(err)
	}

	positive, count, err := services.ToggleLike(user, item)
	if err != nil {
		return remapError(err)
	}

	return c.Status(lo.Ternary(positive, fiber.StatusCreated, fiber.StatusOK)).JSON(fiber.Map{
		"liked":      positive,
		"like_count": count,
	})
}
