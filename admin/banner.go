package admin

import (
	"fmt"
	"net/http"
	"path/filepath"

	"suretips/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

const bannerUploadDir = "./static/banners"

// UploadBanner stores a promo banner for the site's landing page: the
// original plus a 300px-wide thumbnail for the card grid.
func UploadBanner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("banner")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "banner file is required")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "could not decode image")
		return
	}

	uniqueID := utils.GenerateRandomString(16)
	thumbDir := filepath.Join(bannerUploadDir, "thumb")
	for _, dir := range []string{bannerUploadDir, thumbDir} {
		if err := utils.EnsureDir(dir); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "could not prepare upload directory")
			return
		}
	}

	originalPath := filepath.Join(bannerUploadDir, uniqueID+".jpg")
	if err := imaging.Save(img, originalPath); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "could not save banner")
		return
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	thumbnailPath := filepath.Join(thumbDir, uniqueID+".jpg")
	if err := imaging.Save(thumb, thumbnailPath); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "could not save thumbnail")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"banner":    fmt.Sprintf("/banners/%s.jpg", uniqueID),
		"thumbnail": fmt.Sprintf("/banners/thumb/%s.jpg", uniqueID),
	})
}
