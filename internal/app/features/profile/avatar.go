// internal/app/features/profile/avatar.go
package profile

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

const maxAvatarBytes = 5 << 20 // 5 MiB

var avatarExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// HandleAvatarUpload accepts a multipart "avatar" file, stores it under
// a uuid key, and records the public URL on the user.
func (h *Handler) HandleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	if h.Storage == nil {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Internal, "avatar storage is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "avatar file is missing or too large"))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "avatar file is required"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	contentType, ok := avatarExtensions[ext]
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "avatar must be a png, jpeg, gif or webp image"))
		return
	}

	key := fmt.Sprintf("avatars/%s%s", uuid.New().String(), ext)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Storage.Put(ctx, key, file, &storage.PutOptions{ContentType: contentType}); err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not store avatar", err))
		return
	}

	url := strings.TrimRight(h.AvatarBaseURL, "/") + "/" + key
	if err := h.Users.SetAvatarURL(ctx, uid, url); err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not save avatar", err))
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]string{"avatar_url": url})
}
