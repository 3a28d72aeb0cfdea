package main

import (
	"log"
	"net/http"
	"strconv"

	"brightaid/src/common"
	"brightaid/src/types"

	"github.com/gin-gonic/gin"
)

func paramId(ctx *gin.Context, name string) (uint, bool) {
	atoi, err := strconv.Atoi(ctx.Params.ByName(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return uint(atoi), true
}

func utilizationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/projects/:id/available-donations", func(ctx *gin.Context) {
			id, ok := paramId(ctx, "id")
			if !ok {
				return
			}
			available, err := common.ListAvailableDonations(id)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"available_donations": available})
		}).
		GET("/projects/:id/fund-utilizations", func(ctx *gin.Context) {
			id, ok := paramId(ctx, "id")
			if !ok {
				return
			}
			utilizations, err := common.ListUtilizationsByProject(id)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			totals, err := common.TotalUtilizedForProject(id)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"utilizations": utilizations, "totals": totals})
		}).
		GET("/donors/:id/fund-utilizations", func(ctx *gin.Context) {
			id, ok := paramId(ctx, "id")
			if !ok {
				return
			}
			utilizations, err := common.ListUtilizationsByDonor(id)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"utilizations": utilizations})
		}).
		GET("/ngos/:id/fund-utilizations", func(ctx *gin.Context) {
			id, ok := paramId(ctx, "id")
			if !ok {
				return
			}
			utilizations, err := common.ListUtilizationsByNgo(id)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"utilizations": utilizations})
		}).
		POST("/fund-utilizations", func(ctx *gin.Context) {
			var body types.CreateUtilizationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			utilization, err := common.CreateUtilization(&body)
			if err != nil {
				log.Printf("Error creating utilization: %s\n", err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"utilization": utilization})
		}).
		POST("/fund-utilizations/:id/transparency", func(ctx *gin.Context) {
			id, ok := paramId(ctx, "id")
			if !ok {
				return
			}
			var body types.TransparencyRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			transparency, err := common.AttachTransparency(id, &body)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"transparency": transparency})
		}).
		PATCH("/fund-utilizations/:id/status", func(ctx *gin.Context) {
			id, ok := paramId(ctx, "id")
			if !ok {
				return
			}
			var body types.UpdateUtilizationStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			utilization, err := common.UpdateUtilizationStatus(id, body.Status)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"utilization": utilization})
		})
	return g
}
