package escrowControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"github.com/PrasannaGadalGIT/ecom-blink/models"
	"gorm.io/gorm"
)

// GET /admin/escrows
func ListEscrows(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		escrows := []models.EscrowRecord{}
		if err := db.Order("created_at desc").Find(&escrows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch escrows"})
			return
		}
		c.JSON(http.StatusOK, escrows)
	}
}

// GET /admin/escrows/export
//
// Reconciliation sheet of all escrow records. Key material is excluded.
func ExportEscrowsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var escrows []models.EscrowRecord
		if err := db.Order("created_at asc").Find(&escrows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch escrows"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Escrows")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Reference", "HolderAddress", "BuyerAddress", "SellerAddress",
			"Lamports", "Status", "CreatedAt", "UpdatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, e := range escrows {
			row := sheet.AddRow()

			row.AddCell().SetValue(e.ID)
			row.AddCell().SetValue(e.Reference)
			row.AddCell().SetValue(e.HolderAddress)
			row.AddCell().SetValue(e.BuyerAddress)
			row.AddCell().SetValue(e.SellerAddress)
			row.AddCell().SetValue(e.Lamports)
			row.AddCell().SetValue(string(e.Status))
			row.AddCell().SetValue(e.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(e.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=escrows.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
