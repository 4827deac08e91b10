package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
)

const uploadField = "image"

// readUpload enforces the configured size limit and returns the uploaded image part.
// The caller closes the file.
func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	tooLargeMessage := fmt.Sprintf("Файл слишком большой (макс. %d MB)", h.Cfg.MaxUploadSize/(1024*1024))

	if r.ContentLength > h.Cfg.MaxUploadSize {
		WriteError(w, tooLargeMessage, http.StatusRequestEntityTooLarge)
		return nil, nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	// setting the size limit from the config
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, tooLargeMessage, http.StatusRequestEntityTooLarge)
		} else {
			WriteError(w, "Ошибка при обработке файла", http.StatusBadRequest)
		}
		return nil, nil, false
	}

	// getting the file
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		WriteError(w, "Не удалось получить файл", http.StatusBadRequest)
		return nil, nil, false
	}

	return file, header, true
}
