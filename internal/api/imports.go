package api

import (
	"net/http"
	"strings"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/importer"
	"github.com/gin-gonic/gin"
)

const maxImportBytes = 32 << 20

// importSchedule accepts either a multipart upload in field "file" or a
// JSON schedule document as the body.
func (h *handler) importSchedule(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	var (
		res *contract.ImportResult
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		res, err = h.importUpload(c)
	} else {
		var file importer.ScheduleFile
		if err = c.ShouldBindJSON(&file); err == nil {
			res, err = h.deps.Imports.ImportSchedule(c.Request.Context(), c.Param("projectID"), &file)
		}
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) importUpload(c *gin.Context) (*contract.ImportResult, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, badRequestf("multipart field \"file\" is required")
	}
	format, err := importer.FormatFromName(header.Filename)
	if err != nil {
		return nil, badRequestf("%v", err)
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return h.deps.Imports.ImportReader(c.Request.Context(), c.Param("projectID"), f, format)
}
