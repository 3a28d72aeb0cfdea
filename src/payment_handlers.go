package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"brightaid/src/common"
	"brightaid/src/db"
	"brightaid/src/models"
	"brightaid/src/types"

	"github.com/gin-gonic/gin"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payments/initiate", func(ctx *gin.Context) {
			var body types.InitiatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			txn, url, err := common.InitiatePayment(&body)
			if err != nil {
				log.Printf("Error initiating payment: %s\n", err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"transaction_id": txn.ID,
				"reference":      txn.Reference,
				"url":            url,
			})
		}).
		POST("/payments/callback", func(ctx *gin.Context) {
			// The gateway expects 200 no matter what we make of the
			// notification; failures are logged and reconciled offline.
			var body types.PaymentCallbackRequestBody
			if err := ctx.ShouldBind(&body); err != nil {
				log.Printf("Error parsing gateway callback: %s\n", err.Error())
				ctx.JSON(http.StatusOK, gin.H{"received": false})
				return
			}
			metadata := map[string]string{
				"val_id":       body.ValID,
				"bank_tran_id": body.BankTranID,
				"card_type":    body.CardType,
				"card_no":      body.CardNo,
				"risk_title":   body.RiskTitle,
				"status":       body.Status,
			}
			if err := common.HandlePaymentCallback(body.TranID, body.Status, metadata); err != nil {
				log.Printf("Error handling gateway callback for [%s]: %s\n", body.TranID, err.Error())
				ctx.JSON(http.StatusOK, gin.H{"received": false})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"received": true})
		}).
		GET("/transactions/:id", func(ctx *gin.Context) {
			idParam := ctx.Params.ByName("id")
			atoi, err := strconv.Atoi(idParam)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id := uint(atoi)
			db := db.GetDb()
			var txn models.Transaction
			if err = db.Model(&models.Transaction{}).Where("id = ?", id).First(&txn).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"transaction": txn})
		}).
		GET("/transactions", func(ctx *gin.Context) {
			status := ctx.Query("status")
			if status == string(types.TRANSACTION_PENDING) {
				olderThan := time.Duration(0)
				if v := ctx.Query("older_than_minutes"); v != "" {
					atoi, err := strconv.Atoi(v)
					if err != nil {
						ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
						return
					}
					olderThan = time.Duration(atoi) * time.Minute
				}
				txns, err := common.ListPendingTransactions(olderThan)
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"transactions": txns})
				return
			}
			db := db.GetDb()
			var txns []models.Transaction
			q := db.Model(&models.Transaction{}).Order("initiated_at desc")
			if status != "" {
				q = q.Where("status = ?", status)
			}
			if err := q.Find(&txns).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"transactions": txns})
		})
	return g
}
