package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/artem13815/animelist/api/http/presenter"
	"github.com/artem13815/animelist/pkg/watchlist"
)

type AnimeHandler struct {
	uc watchlist.UseCase
}

func NewAnimeHandler(uc watchlist.UseCase) *AnimeHandler { return &AnimeHandler{uc: uc} }

type addAnimeRequest struct {
	SourceID        *int64  `json:"source_id" validate:"required,min=0,max=2147483647"`
	Title           string  `json:"title" validate:"required,max=255"`
	TitleLocalized  *string `json:"title_localized" validate:"omitempty,max=255"`
	ImageRef        string  `json:"image_ref" validate:"required,max=255"`
	WatchedEpisodes *int    `json:"watched_episodes" validate:"required,min=0,max=2147483647"`
	TotalEpisodes   string  `json:"total_episodes" validate:"required,max=255"`
}

type addAnimeResponse struct {
	AnimeID int64  `json:"animeId"`
	Message string `json:"message"`
}

type updateProgressRequest struct {
	WatchedEpisodes *int `json:"watched_episodes" validate:"required,min=0,max=2147483647"`
}

// pathIDs reads :userId and, when present, :animeId. The auth middleware
// has already checked :userId against the token.
func pathIDs(c *fiber.Ctx) (userID, animeID int64, err error) {
	userID, err = strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	if raw := c.Params("animeId"); raw != "" {
		animeID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, 0, err
		}
	}
	return userID, animeID, nil
}

// storeFailure logs the underlying error and answers with a message that
// reveals nothing about the store.
func storeFailure(c *fiber.Ctx, err error, message string) error {
	zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg(message)
	return presenter.Fail(c, http.StatusInternalServerError, message)
}

// List returns the caller's watchlist.
// @Summary  List watchlist
// @Tags     animes
// @Produce  json
// @Param    userId path int true "user id"
// @Security BearerAuth
// @Success  200 {array}  watchlist.Anime
// @Failure  401 {object} presenter.ErrorResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  500 {object} presenter.FailureResponse
// @Router   /users/{userId}/animes [get]
func (h *AnimeHandler) List(c *fiber.Ctx) error {
	userID, _, err := pathIDs(c)
	if err != nil {
		return presenter.Fail(c, http.StatusBadRequest, "invalid id")
	}
	items, err := h.uc.List(c.UserContext(), userID)
	if err != nil {
		return storeFailure(c, err, "An error occurred while fetching animes.")
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Add creates a catalog entry and links it to the user in one transaction.
// @Summary  Add anime to watchlist
// @Tags     animes
// @Accept   json
// @Produce  json
// @Param    userId path int true "user id"
// @Param    input body addAnimeRequest true "anime attributes"
// @Security BearerAuth
// @Success  201 {object} addAnimeResponse
// @Failure  400 {object} presenter.FailureResponse
// @Failure  401 {object} presenter.ErrorResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  500 {object} presenter.FailureResponse
// @Router   /users/{userId}/animes [post]
func (h *AnimeHandler) Add(c *fiber.Ctx) error {
	userID, _, err := pathIDs(c)
	if err != nil {
		return presenter.Fail(c, http.StatusBadRequest, "invalid id")
	}
	var req addAnimeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Fail(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validate.Struct(req); err != nil {
		return presenter.Fail(c, http.StatusBadRequest, validationMessage(err))
	}

	animeID, err := h.uc.Add(c.UserContext(), userID, watchlist.Attributes{
		SourceID:        *req.SourceID,
		Title:           req.Title,
		TitleLocalized:  req.TitleLocalized,
		ImageRef:        req.ImageRef,
		WatchedEpisodes: *req.WatchedEpisodes,
		TotalEpisodes:   req.TotalEpisodes,
	})
	if err != nil {
		if errors.Is(err, watchlist.ErrInvalidInput) {
			return presenter.Fail(c, http.StatusBadRequest, err.Error())
		}
		return storeFailure(c, err, "An error occurred while adding anime.")
	}
	return presenter.JSON(c, http.StatusCreated, addAnimeResponse{
		AnimeID: animeID,
		Message: "Anime added successfully",
	})
}

// UpdateProgress sets the watched episode count on one of the user's entries.
// @Summary  Update watched episodes
// @Tags     animes
// @Accept   json
// @Produce  json
// @Param    userId  path int true "user id"
// @Param    animeId path int true "anime id"
// @Param    input body updateProgressRequest true "progress"
// @Security BearerAuth
// @Success  200 {object} presenter.MessageResponse
// @Failure  400 {object} presenter.FailureResponse
// @Failure  404 {object} presenter.FailureResponse
// @Failure  500 {object} presenter.FailureResponse
// @Router   /users/{userId}/animes/{animeId} [put]
func (h *AnimeHandler) UpdateProgress(c *fiber.Ctx) error {
	userID, animeID, err := pathIDs(c)
	if err != nil {
		return presenter.Fail(c, http.StatusBadRequest, "invalid id")
	}
	var req updateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Fail(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validate.Struct(req); err != nil {
		return presenter.Fail(c, http.StatusBadRequest, validationMessage(err))
	}

	err = h.uc.UpdateProgress(c.UserContext(), userID, animeID, *req.WatchedEpisodes)
	switch {
	case err == nil:
		return presenter.Message(c, http.StatusOK, "Anime updated successfully")
	case errors.Is(err, watchlist.ErrNotFound):
		return presenter.Fail(c, http.StatusNotFound, "Anime not found in your list.")
	case errors.Is(err, watchlist.ErrInvalidInput):
		return presenter.Fail(c, http.StatusBadRequest, err.Error())
	default:
		return storeFailure(c, err, "An error occurred while updating anime.")
	}
}

// Remove deletes the entry and its catalog row. Removing an entry that is
// not in the list succeeds without changes.
// @Summary  Remove anime from watchlist
// @Tags     animes
// @Produce  json
// @Param    userId  path int true "user id"
// @Param    animeId path int true "anime id"
// @Security BearerAuth
// @Success  200 {object} presenter.MessageResponse
// @Failure  500 {object} presenter.FailureResponse
// @Router   /users/{userId}/animes/{animeId} [delete]
func (h *AnimeHandler) Remove(c *fiber.Ctx) error {
	userID, animeID, err := pathIDs(c)
	if err != nil {
		return presenter.Fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.uc.Remove(c.UserContext(), userID, animeID); err != nil {
		return storeFailure(c, err, "An error occurred while deleting anime.")
	}
	return presenter.Message(c, http.StatusOK, "Anime deleted successfully")
}
