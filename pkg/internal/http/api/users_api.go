package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/snapit-app/server/pkg/internal/conf"
	"github.com/snapit-app/server/pkg/internal/database"
	"github.com/snapit-app/server/pkg/internal/http/exts"
	"github.com/snapit-app/server/pkg/internal/models"
	"github.com/snapit-app/server/pkg/internal/services"
)

func setAuthCookie(c *fiber.Ctx, cfg *conf.Config, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Expires:  time.Now().Add(cfg.TokenValidDuration()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func registerAccount(cfg *conf.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var data struct {
			Name            string `json:"name" validate:"required"`
			Email           string `json:"email" validate:"required,email"`
			Password        string `json:"password" validate:"required,min=8"`
			ConfirmPassword string `json:"confirm_password" validate:"required"`
		}

		if err := exts.BindAndValidate(c, &data); err != nil {
			return err
		}

		account, err := services.NewAccount(data.Name, data.Email, data.Password, data.ConfirmPassword)
		if err != nil {
			return remapError(err)
		}

		token, err := services.IssueToken(cfg, account.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		setAuthCookie(c, cfg, token)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user":  account,
			"token": token,
		})
	}
}

func loginAccount(cfg *conf.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var data struct {
			Email    string `json:"email" validate:"required"`
			Password string `json:"password" validate:"required"`
		}

		if err := exts.BindAndValidate(c, &data); err != nil {
			return err
		}

		account, err := services.VerifyCredential(data.Email, data.Password)
		if err != nil {
			return remapError(err)
		}

		token, err := services.IssueToken(cfg, account.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		setAuthCookie(c, cfg, token)

		return c.JSON(fiber.Map{
			"user":  account,
			"token": token,
		})
	}
}

func logoutAccount(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.SendStatus(fiber.StatusOK)
}

func getMyProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	account, err := services.GetAccount(user.ID)
	if err != nil {
		return remapError(err)
	}
	account.Password = ""

	return c.JSON(account)
}

func getUserProfile(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("userId", 0)

	account, err := services.GetAccount(uint(id))
	if err != nil {
		return remapError(err)
	}
	account.Password = ""

	return c.JSON(account)
}

func updateProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		Name   string `json:"name"`
		Email  string `json:"email" validate:"omitempty,email"`
		Bio    string `json:"bio"`
		Avatar string `json:"avatar"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.UpdateProfile(user, data.Name, data.Email, data.Bio, data.Avatar)
	if err != nil {
		return remapError(err)
	}

	return c.JSON(account)
}

func changePassword(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ChangePassword(user, data.OldPassword, data.NewPassword); err != nil {
		return remapError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func updateDisplayPicture(cfg *conf.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := exts.EnsureAuthenticated(c); err != nil {
			return err
		}
		user := c.Locals("user").(models.Account)

		artifacts, err := uploadFormImages(c, "displayPicture", cfg.Storage.Folder)
		if err != nil {
			return err
		}
		if len(artifacts) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "no display picture file provided")
		}

		account, err := services.UpdateAvatar(user, artifacts[0].URL)
		if err != nil {
			return remapError(err)
		}

		return c.JSON(fiber.Map{
			"avatar": account.Avatar,
		})
	}
}

func deleteAccount(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	if err := services.DeleteAccount(user); err != nil {
		return remapError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func toggleFollowAccount(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	id, _ := c.ParamsInt("userId", 0)

	relation, err := services.ToggleFollow(user.ID, uint(id))
	if err != nil {
		return remapError(err)
	}

	return c.JSON(fiber.Map{
		"relation": relation,
	})
}

func getFollowData(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("userId", 0)

	if _, err := services.GetAccount(uint(id)); err != nil {
		return remapError(err)
	}

	followers, err := services.ListFollowers(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	following, err := services.ListFollowing(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"followers": followers,
		"following": following,
	})
}

func listAccountPosts(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("userId", 0)
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	tx := services.FilterPostWithAuthor(database.C, uint(id))

	count, err := services.CountPost(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPost(services.FilterPostWithAuthor(database.C, uint(id)), take, offset, "created_at DESC")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func listAccountCollections(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("userId", 0)

	collections, err := services.ListCollection(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(collections)
}
