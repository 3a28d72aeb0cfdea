package main

import (
	"log"
	"net/http"

	"brightaid/src/common"

	"github.com/gin-gonic/gin"
)

func scholarshipHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/scholarships/update", func(ctx *gin.Context) {
			if err := common.ReconcileScholarshipFlags(); err != nil {
				log.Printf("Error reconciling scholarship flags: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"updated": true})
		}).
		POST("/scholarships/fix-historical", func(ctx *gin.Context) {
			fixed, err := common.FixHistoricalScholarships()
			if err != nil {
				log.Printf("Error backfilling scholarship flags: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"fixed": fixed})
		}).
		GET("/scholarships/summary", func(ctx *gin.Context) {
			summary, err := common.GetScholarshipSummary()
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"summary": summary})
		})
	return g
}
