package controller

import (
	"errors"
	"net/http"

	"github.com/watchparty/server/internal/service/media"
	"github.com/watchparty/server/pkg/rest"
)

func (c controller) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(c.maxUploadSize); err != nil {
		c.logger.DebugContext(r.Context(), "failed to parse multipart form", "error", err)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	roomName := r.FormValue("room")
	if roomName == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "room is required"})
		return
	}

	video, videoHeader, err := r.FormFile("videoFile")
	if err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "Video is required"})
		return
	}
	defer video.Close()

	params := media.UploadParams{
		Room:      roomName,
		VideoName: videoHeader.Filename,
		Video:     video,
	}

	if image, imageHeader, err := r.FormFile("imageFile"); err == nil {
		defer image.Close()
		params.ImageName = imageHeader.Filename
		params.Image = image
	}

	if _, err := c.mediaService.Upload(r.Context(), &params); err != nil {
		if errors.Is(err, media.ErrVideoRequired) || errors.Is(err, media.ErrRoomRequired) {
			rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to store upload", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "upload failed"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"status": "ok"})
}

func (c controller) files(w http.ResponseWriter, r *http.Request) {
	roomName := r.URL.Query().Get("room")
	if roomName == "" {
		rest.WriteJSON(w, http.StatusOK, []media.Entry{})
		return
	}

	entries, err := c.mediaService.List(r.Context(), roomName)
	if err != nil {
		// listing failures degrade to an empty library
		c.logger.WarnContext(r.Context(), "failed to list media", "error", err)
		rest.WriteJSON(w, http.StatusOK, []media.Entry{})
		return
	}

	rest.WriteJSON(w, http.StatusOK, entries)
}
