package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/snapit-app/server/pkg/internal/services"
	"github.com/snapit-app/server/pkg/internal/storage"
)

const maxImagesPerUpload = 10

// uploadFormImages stores every file of the multipart field and returns the
// resulting artifacts. A failure mid-way releases what was already stored so
// the request leaves no stray objects behind.
func uploadFormImages(c *fiber.Ctx, field, folder string) ([]storage.Artifact, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "multipart form data is required")
	}

	files := form.File[field]
	if len(files) > maxImagesPerUpload {
		return nil, fiber.NewError(fiber.StatusBadRequest, "too many images in one upload")
	}

	var artifacts []storage.Artifact
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			services.ReleaseArtifacts(artifactIdx(artifacts))
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		artifact, err := storage.C.Upload(c.UserContext(), src, file.Size, file.Header.Get("Content-Type"), folder)
		_ = src.Close()
		if err != nil {
			services.ReleaseArtifacts(artifactIdx(artifacts))
			return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

func artifactIdx(artifacts []storage.Artifact) []string {
	return lo.Map(artifacts, func(artifact storage.Artifact, _ int) string {
		return artifact.ID
	})
}
