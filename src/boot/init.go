package boot

import (
	"log"

	"brightaid/src/common"
	"brightaid/src/config"
	"brightaid/src/db"
	"brightaid/src/lib"
	"brightaid/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Donor{},
		&models.Ngo{},
		&models.School{},
		&models.Student{},
		&models.SchoolProject{},
		&models.Transaction{},
		&models.Donation{},
		&models.FundUtilization{},
		&models.FundTransparency{},
		&models.Gamification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler registers the daily scholarship reconciliation and starts
// the scheduler.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	expression := config.ScholarshipCron()
	jobId, err := lib.CreateCronJob(expression, func() {
		if err := common.ReconcileScholarshipFlags(); err != nil {
			log.Printf("Error on scheduled scholarship reconciliation: %s\n", err.Error())
		}
	})
	if err != nil {
		log.Printf("Error registering scholarship job: %s\n", err.Error())
		return
	}
	log.Printf("Scholarship job [%s] registered with schedule %q\n", *jobId, expression)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("Error shutting down scheduler: %s\n", err.Error())
	}
}
