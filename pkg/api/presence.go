package api

import (
	"net/http"

	"github.com/labstack/echo"
	"github.com/nsyszr/chatline/pkg/api/resource"
	"github.com/nsyszr/chatline/pkg/storage"
)

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Server is running",
	})
}

// handleFetchPresence returns all identities with a live session,
// resolved against the user store where a record exists. An identity
// that vanished from the store meanwhile is still listed with its id.
func (h *Handler) handleFetchPresence(c echo.Context) error {
	userIDs := h.presence.OnlineSnapshot()

	out := resource.NewPresenceList()
	for _, userID := range userIDs {
		user, err := h.store.Users().FindByID(c.Request().Context(), userID)
		if err == storage.ErrNotFound {
			out.Add(resource.NewPresence(userID, "", ""))
			continue
		} else if err != nil {
			return c.JSON(http.StatusInternalServerError, err)
		}

		out.Add(resource.NewPresence(user.ID, user.Username, user.ProfilePicture))
	}
	out.Sort()

	return c.JSON(http.StatusOK, out)
}
