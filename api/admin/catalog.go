package admin

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
	"poolshop_server/services"
)

const maxImportMemory = 8 << 20

// ImportCatalog reads a catalog sheet (.xlsx or CSV) from the "file" field of
// a multipart form, or from the raw request body.
func (ar *AdminRoutesManager) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	var src io.Reader = r.Body

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportMemory); err != nil {
			handling.HandleBodyError(err, "catalog", w)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			handling.HandleBodyError(err, "catalog", w)
			return
		}
		defer file.Close()
		src = file
	}

	result, err := ar.services.CatalogImportService.Import(r.Context(), src)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.catalog.invalidFile"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.catalog.imported"),
		gecho.WithData(result),
		gecho.Send(),
	)
}

// ExportCatalog downloads the catalog in the import format, CSV by default
// or an .xlsx workbook with ?format=xlsx.
func (ar *AdminRoutesManager) ExportCatalog(w http.ResponseWriter, r *http.Request) {
	export, contentType, filename := ar.services.CatalogImportService.Export, "text/csv; charset=utf-8", "catalogue.csv"
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
	case "xlsx":
		export, contentType, filename = ar.services.CatalogImportService.ExportWorkbook, services.WorkbookContentType, "catalogue.xlsx"
	default:
		gecho.BadRequest(w,
			gecho.WithMessage("error.catalog.invalidFormat"),
			gecho.WithData(map[string]string{"format": format}),
			gecho.Send(),
		)
		return
	}

	var buf bytes.Buffer
	if err := export(&buf); err != nil {
		handling.HandleError(err, "failed to export catalog", ar.logger, w)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		ar.logger.Warn("Failed to write catalog export", gecho.Field("error", err))
	}
}
