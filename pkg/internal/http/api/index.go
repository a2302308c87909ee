package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapit-app/server/pkg/internal/conf"
)

func MapAPIs(app *fiber.App, cfg *conf.Config) {
	api := app.Group("/api/v1").Use(authMiddleware(cfg))

	user := api.Group("/user").Name("User API")
	{
		user.Post("/register", registerAccount(cfg))
		user.Post("/login", loginAccount(cfg))
		user.Get("/logout", logoutAccount)
		user.Get("/me", getMyProfile)
		user.Put("/update", updateProfile)
		user.Put("/changePassword", changePassword)
		user.Put("/updateDisplayPicture", updateDisplayPicture(cfg))
		user.Delete("/delete", deleteAccount)
		user.Post("/follow/:userId", toggleFollowAccount)
		user.Get("/followData/:userId", getFollowData)
		user.Get("/posts/:userId", listAccountPosts)
		user.Get("/collections/:userId", listAccountCollections)
		user.Get("/:userId", getUserProfile)
	}

	posts := api.Group("/posts").Name("Posts API")
	{
		posts.Post("/newPost", createPost(cfg))
		posts.Get("/allPosts", listAllPosts)
		posts.Get("/:postId", getPost)
		posts.Put("/update/:postId", updatePost)
		posts.Delete("/:postId", deletePost)
		posts.Post("/:postId/comments", addComment)
		posts.Delete("/:postId/comments/:commentId", deleteComment)
		posts.Post("/:postId/reactions", reactToPost)
	}

	collection := api.Group("/collection").Name("Collection API")
	{
		collection.Post("/createCollection", createCollection)
		collection.Get("/all-Collections", listOwnCollections)
		collection.Post("/:collectionId/posts", createCollectionPost(cfg))
		collection.Delete("/:collectionId/posts/:postId", removeCollectionPost)
		collection.Delete("/:collectionId", deleteCollection)
	}
}
