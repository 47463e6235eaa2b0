package handler

import (
	"context"
	"fmt"
	"strings"

	"friendica_api/api"
	"friendica_api/apperr"
)

// PhotoItem friendica/photos/list 的条目
type PhotoItem struct {
	ID       string `json:"id"`
	Album    string `json:"album"`
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Desc     string `json:"desc"`
	Created  string `json:"created"`
	Edited   string `json:"edited"`
	Link     string `json:"link"`
	Thumb    string `json:"thumb"`
}

// albumResult 相册操作的返回值
type albumResult struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// PhotoHandler 相册接口
type PhotoHandler struct {
	photos  PhotoStore
	baseURL string
}

func NewPhotoHandler(photos PhotoStore, baseURL string) *PhotoHandler {
	return &PhotoHandler{photos: photos, baseURL: strings.TrimSuffix(baseURL, "/")}
}

var photoExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// List friendica/photos/list
func (h *PhotoHandler) List(ctx context.Context, req *api.Request) (*api.Result, error) {
	photos, err := h.photos.ListPhotos(ctx, req.ViewerID())
	if err != nil {
		return nil, err
	}

	items := make([]PhotoItem, 0, len(photos))
	for _, p := range photos {
		ext, ok := photoExtensions[p.Type]
		if !ok {
			ext = "jpg"
		}
		items = append(items, PhotoItem{
			ID:       p.ResourceID,
			Album:    p.Album,
			Filename: p.Filename,
			Type:     p.Type,
			Desc:     p.Desc,
			Created:  p.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			Edited:   p.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
			Link:     fmt.Sprintf("%s/photo/%s-%d.%s", h.baseURL, p.ResourceID, p.Scale, ext),
			Thumb:    fmt.Sprintf("%s/photo/%s-%d.%s", h.baseURL, p.ResourceID, thumbScale, ext),
		})
	}
	return &api.Result{Root: "photos", Key: "photo", Value: items}, nil
}

// 缩略图固定使用 scale 2
const thumbScale = 2

// DeleteAlbum friendica/photoalbum/delete
func (h *PhotoHandler) DeleteAlbum(ctx context.Context, req *api.Request) (*api.Result, error) {
	album := req.Param("album")
	if album == "" {
		return nil, apperr.BadRequest("no albumname specified")
	}

	ok, err := h.photos.DeleteAlbum(ctx, req.ViewerID(), album)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.BadRequest("album not available")
	}

	return &api.Result{
		Root:  "photoalbum_delete",
		Key:   "result",
		Value: albumResult{Result: "deleted", Message: "album `" + album + "` with all containing photos has been deleted."},
	}, nil
}

// UpdateAlbum friendica/photoalbum/update
func (h *PhotoHandler) UpdateAlbum(ctx context.Context, req *api.Request) (*api.Result, error) {
	album, albumNew := req.Param("album"), req.Param("album_new")
	if album == "" {
		return nil, apperr.BadRequest("no albumname specified")
	}
	if albumNew == "" {
		return nil, apperr.BadRequest("no new albumname specified")
	}

	ok, err := h.photos.RenameAlbum(ctx, req.ViewerID(), album, albumNew)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.BadRequest("album not available")
	}

	return &api.Result{
		Root:  "photoalbum_update",
		Key:   "result",
		Value: albumResult{Result: "updated", Message: "album `" + album + "` with all containing photos has been renamed to `" + albumNew + "`."},
	}, nil
}
