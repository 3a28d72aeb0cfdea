package main

import (
	"log"
	"net/http"
	"strconv"

	"brightaid/src/common"
	"brightaid/src/db"
	"brightaid/src/models"

	"github.com/gin-gonic/gin"
)

func donationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/donations/:id", func(ctx *gin.Context) {
			idParam := ctx.Params.ByName("id")
			atoi, err := strconv.Atoi(idParam)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id := uint(atoi)
			db := db.GetDb()
			var donation models.Donation
			err = db.Model(&models.Donation{}).
				Preload("Donor").
				Preload("Ngo").
				Preload("Student").
				Preload("Project").
				Where("id = ?", id).
				First(&donation).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"donation": donation})
		}).
		GET("/donations", func(ctx *gin.Context) {
			db := db.GetDb()
			q := db.Model(&models.Donation{}).Order("donated_at desc")
			for param, column := range map[string]string{
				"donor_id":   "donor_id",
				"ngo_id":     "ngo_id",
				"student_id": "student_id",
				"project_id": "project_id",
			} {
				if v := ctx.Query(param); v != "" {
					atoi, err := strconv.Atoi(v)
					if err != nil {
						ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
						return
					}
					q = q.Where(column+" = ?", atoi)
				}
			}
			if channel := ctx.Query("channel"); channel != "" {
				q = q.Where("channel = ?", channel)
			}
			var donations []models.Donation
			if err := q.Find(&donations).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"donations": donations})
		}).
		POST("/transactions/:id/materialize", func(ctx *gin.Context) {
			// Operator retry after a materialization incident. Safe to call
			// repeatedly; an already-materialized transaction is a 409.
			idParam := ctx.Params.ByName("id")
			atoi, err := strconv.Atoi(idParam)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id := uint(atoi)
			db := db.GetDb()
			var txn models.Transaction
			if err := db.Model(&models.Transaction{}).Where("id = ?", id).First(&txn).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			donation, err := common.MaterializeDonation(&txn)
			if err != nil {
				log.Printf("Error materializing transaction [%d]: %s\n", id, err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"donation": donation})
		})
	return g
}
