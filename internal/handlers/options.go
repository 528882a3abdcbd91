package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"thumbgen/internal/transform"
)

// optionsFromForm overlays the request's option fields on defaults. Empty
// fields keep the default.
func optionsFromForm(r *http.Request, defaults transform.Options) (transform.Options, error) {
	opts := defaults

	if v := r.FormValue("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("%w: size %q is not an integer", transform.ErrInvalidOptions, v)
		}
		opts.Size = n
	}
	if v := r.FormValue("shape"); v != "" {
		shape, err := transform.ParseShape(v)
		if err != nil {
			return opts, err
		}
		opts.Shape = shape
	}
	if v := r.FormValue("pad_color"); v != "" {
		opts.PadColor = v
	}
	if v := r.FormValue("format"); v != "" {
		format, err := transform.ParseFormat(v)
		if err != nil {
			return opts, err
		}
		opts.Format = format
	}
	if v := r.FormValue("quality"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("%w: quality %q is not an integer", transform.ErrInvalidOptions, v)
		}
		opts.Quality = n
	}
	if _, ok := r.MultipartForm.Value["watermark"]; ok {
		opts.Watermark = r.FormValue("watermark")
	}
	if v := r.FormValue("sharpen"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("%w: sharpen %q is not a boolean", transform.ErrInvalidOptions, v)
		}
		opts.Sharpen = b
	}

	return opts, opts.Validate()
}

// GetDefaults returns the options applied to fields a request omits.
func (h *Handlers) GetDefaults(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.config.Defaults)
}
