package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapit-app/server/pkg/internal/conf"
	"github.com/snapit-app/server/pkg/internal/http/exts"
	"github.com/snapit-app/server/pkg/internal/models"
	"github.com/snapit-app/server/pkg/internal/services"
)

func createCollection(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	collection, err := services.NewCollection(user, data.Name, data.Description)
	if err != nil {
		return remapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(collection)
}

func listOwnCollections(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	collections, err := services.ListCollection(user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(collections)
}

func createCollectionPost(cfg *conf.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := exts.EnsureAuthenticated(c); err != nil {
			return err
		}
		user := c.Locals("user").(models.Account)
		id, _ := c.ParamsInt("collectionId", 0)

		collection, err := services.GetCollection(uint(id))
		if err != nil {
			return remapError(err)
		}

		artifacts, err := uploadFormImages(c, "images", services.CollectionFolder(cfg, collection))
		if err != nil {
			return err
		}

		post, err := services.AddCollectionPost(user, collection, artifacts)
		if err != nil {
			services.ReleaseArtifacts(artifactIdx(artifacts))
			return remapError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(post)
	}
}

func removeCollectionPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	collectionID, _ := c.ParamsInt("collectionId", 0)
	postID, _ := c.ParamsInt("postId", 0)

	collection, err := services.GetCollection(uint(collectionID))
	if err != nil {
		return remapError(err)
	}

	if err := services.RemoveCollectionPost(user, collection, uint(postID)); err != nil {
		return remapError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func deleteCollection(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("collectionId", 0)

	collection, err := services.GetCollection(uint(id))
	if err != nil {
		return remapError(err)
	}

	if err := services.DeleteCollection(user, collection); err != nil {
		return remapError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}
