package common

import (
	"fmt"
	"log"
	"sort"
	"time"

	"brightaid/src/config"
	"brightaid/src/db"
	"brightaid/src/models"
	"brightaid/src/types"

	"gorm.io/gorm"
)

func donationSourceLabel(donation *models.Donation) string {
	if donation.IsAnonymous {
		return "Anonymous"
	}
	switch {
	case donation.Donor != nil && donation.Donor.Name != "":
		return donation.Donor.Name
	case donation.Ngo != nil && donation.Ngo.Name != "":
		return donation.Ngo.Name
	}
	return "Anonymous"
}

// utilizedByDonation sums linked spend per donation id across the given set.
func utilizedByDonation(tx *gorm.DB, donationIds []uint) (map[uint]float64, error) {
	totals := map[uint]float64{}
	if len(donationIds) == 0 {
		return totals, nil
	}
	rows := []struct {
		DonationID uint
		Total      float64
	}{}
	err := tx.Model(&models.FundUtilization{}).
		Select("donation_id, COALESCE(SUM(amount_used), 0) as total").
		Where("donation_id IN ?", donationIds).
		Group("donation_id").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		totals[r.DonationID] = r.Total
	}
	return totals, nil
}

// ListAvailableDonations is the unspent-funds view a school consults before
// reporting spend: every completed donation targeting the project that still
// has money left, largest pool first so big buckets drain before small ones.
func ListAvailableDonations(projectId uint) ([]types.AvailableDonation, error) {
	d := db.GetDb()
	var donations []models.Donation
	err := d.Model(&models.Donation{}).
		Preload("Donor").
		Preload("Ngo").
		Where("project_id = ? AND payment_status = ?", projectId, types.PAYMENT_COMPLETED).
		Find(&donations).
		Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(donations))
	for _, dn := range donations {
		ids = append(ids, dn.ID)
	}
	utilized, err := utilizedByDonation(d, ids)
	if err != nil {
		return nil, err
	}

	available := make([]types.AvailableDonation, 0, len(donations))
	for i := range donations {
		dn := &donations[i]
		used := utilized[dn.ID]
		remaining := dn.Amount - used
		if remaining <= 0 {
			continue
		}
		available = append(available, types.AvailableDonation{
			DonationID:  dn.ID,
			SourceLabel: donationSourceLabel(dn),
			Channel:     dn.Channel,
			Amount:      dn.Amount,
			Utilized:    used,
			Remaining:   remaining,
			DonatedAt:   dn.DonatedAt,
		})
	}
	sort.SliceStable(available, func(i, j int) bool {
		if available[i].Remaining != available[j].Remaining {
			return available[i].Remaining > available[j].Remaining
		}
		return available[i].DonatedAt.After(available[j].DonatedAt)
	})
	return available, nil
}

// CreateUtilization records spend against a project. When a donation id is
// given, the donation row is locked and its utilized total summed inside the
// same transaction that writes the new row, so two concurrent attempts can
// never jointly overdraw it.
func CreateUtilization(body *types.CreateUtilizationRequestBody) (*models.FundUtilization, error) {
	if body.AmountUsed <= 0 {
		return nil, fmt.Errorf("%w: amount_used must be greater than zero", ErrValidation)
	}
	d := db.GetDb()
	var project models.SchoolProject
	if err := d.Where("id = ?", body.ProjectID).First(&project).Error; err != nil {
		return nil, fmt.Errorf("%w: project %d", ErrNotFound, body.ProjectID)
	}

	var utilizationDate *time.Time
	if body.UtilizationDate != nil && *body.UtilizationDate != "" {
		parsed, err := time.Parse(config.TIME_PARSE_FORMAT, *body.UtilizationDate)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", *body.UtilizationDate)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid utilization_date %q", ErrValidation, *body.UtilizationDate)
		}
		utilizationDate = &parsed
	}

	utilization := models.FundUtilization{
		ProjectID:           body.ProjectID,
		DonationID:          body.DonationID,
		AmountUsed:          body.AmountUsed,
		SpecificPurpose:     body.SpecificPurpose,
		DetailedDescription: body.DetailedDescription,
		VendorName:          body.VendorName,
		BillInvoiceNumber:   body.BillInvoiceNumber,
		UtilizationDate:     utilizationDate,
		Status:              types.UTILIZATION_PENDING,
	}
	err := d.Transaction(func(tx *gorm.DB) error {
		if body.DonationID != nil {
			var donation models.Donation
			err := lockForUpdate(tx).
				Where("id = ?", *body.DonationID).
				First(&donation).
				Error
			if err != nil {
				return fmt.Errorf("%w: donation %d", ErrNotFound, *body.DonationID)
			}
			if donation.ProjectID == nil || *donation.ProjectID != body.ProjectID {
				return fmt.Errorf("%w: donation %d does not target project %d", ErrValidation, donation.ID, body.ProjectID)
			}
			if donation.PaymentStatus != types.PAYMENT_COMPLETED {
				return fmt.Errorf("%w: donation %d is not completed", ErrValidation, donation.ID)
			}
			var used float64
			err = tx.Model(&models.FundUtilization{}).
				Where("donation_id = ?", donation.ID).
				Select("COALESCE(SUM(amount_used), 0)").
				Scan(&used).
				Error
			if err != nil {
				return err
			}
			if body.AmountUsed > donation.Amount-used {
				return fmt.Errorf("%w: requested %.2f, remaining %.2f on donation %d", ErrOverAllocation, body.AmountUsed, donation.Amount-used, donation.ID)
			}
		}
		return tx.Create(&utilization).Error
	})
	if err != nil {
		return nil, err
	}

	if body.Transparency != nil {
		if _, err := AttachTransparency(utilization.ID, body.Transparency); err != nil {
			// Evidence is descriptive only; the spend record stands.
			log.Printf("Error attaching transparency to utilization [%d]: %s\n", utilization.ID, err.Error())
		}
	}
	return &utilization, nil
}

// AttachTransparency appends an evidence record to an existing utilization.
// Amounts are not re-validated here.
func AttachTransparency(utilizationId uint, body *types.TransparencyRequestBody) (*models.FundTransparency, error) {
	d := db.GetDb()
	var count int64
	if err := d.Model(&models.FundUtilization{}).Where("id = ?", utilizationId).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: utilization %d", ErrNotFound, utilizationId)
	}
	isPublic := true
	if body.IsPublic != nil {
		isPublic = *body.IsPublic
	}
	transparency := models.FundTransparency{
		UtilizationID:       utilizationId,
		BeforePhotos:        body.BeforePhotos,
		AfterPhotos:         body.AfterPhotos,
		BeneficiaryFeedback: body.BeneficiaryFeedback,
		QuantityPurchased:   body.QuantityPurchased,
		UnitMeasurement:     body.UnitMeasurement,
		UnitCost:            body.UnitCost,
		AdditionalNotes:     body.AdditionalNotes,
		IsPublic:            isPublic,
	}
	if err := d.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&transparency).Error
	}); err != nil {
		return nil, err
	}
	return &transparency, nil
}

// UpdateUtilizationStatus advances a utilization one step along
// pending, approved, completed. No reverse or skipping transition is
// exposed here; the update is a compare-and-set on the prior status.
func UpdateUtilizationStatus(utilizationId uint, target types.UtilizationStatus) (*models.FundUtilization, error) {
	var prior types.UtilizationStatus
	switch target {
	case types.UTILIZATION_APPROVED:
		prior = types.UTILIZATION_PENDING
	case types.UTILIZATION_COMPLETED:
		prior = types.UTILIZATION_APPROVED
	default:
		return nil, fmt.Errorf("%w: cannot transition to %s", ErrValidation, target)
	}

	d := db.GetDb()
	var utilization models.FundUtilization
	if err := d.Where("id = ?", utilizationId).First(&utilization).Error; err != nil {
		return nil, fmt.Errorf("%w: utilization %d", ErrNotFound, utilizationId)
	}
	res := d.Model(&models.FundUtilization{}).
		Where("id = ? AND status = ?", utilizationId, prior).
		Update("status", target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: utilization %d is %s, cannot move to %s", ErrValidation, utilizationId, utilization.Status, target)
	}
	utilization.Status = target
	return &utilization, nil
}

// ListUtilizationsByProject returns every spend record for a project, most
// recent first, with evidence preloaded.
func ListUtilizationsByProject(projectId uint) ([]models.FundUtilization, error) {
	d := db.GetDb()
	var utilizations []models.FundUtilization
	err := d.Model(&models.FundUtilization{}).
		Preload("Transparency").
		Where("project_id = ?", projectId).
		Order("created_at desc").
		Find(&utilizations).
		Error
	return utilizations, err
}

// ListUtilizationsByDonor shows a donor where their money went: spend
// records drawing on any of their donations.
func ListUtilizationsByDonor(donorId uint) ([]models.FundUtilization, error) {
	return listUtilizationsByActor("donor_id", donorId)
}

// ListUtilizationsByNgo is the NGO-facing variant.
func ListUtilizationsByNgo(ngoId uint) ([]models.FundUtilization, error) {
	return listUtilizationsByActor("ngo_id", ngoId)
}

func listUtilizationsByActor(column string, actorId uint) ([]models.FundUtilization, error) {
	d := db.GetDb()
	var utilizations []models.FundUtilization
	err := d.Model(&models.FundUtilization{}).
		Preload("Transparency").
		Preload("Donation").
		Joins("JOIN donations ON donations.id = fund_utilizations.donation_id").
		Where(fmt.Sprintf("donations.%s = ?", column), actorId).
		Order("fund_utilizations.created_at desc").
		Find(&utilizations).
		Error
	return utilizations, err
}

// ProjectUtilizationTotals splits a project's spend into the part linked to
// specific donations and the unlinked project-level aggregate. The unlinked
// share is reported separately because it cannot be attributed to any
// donation's remaining balance.
type ProjectUtilizationTotals struct {
	Linked   float64 `json:"linked"`
	Unlinked float64 `json:"unlinked"`
	Total    float64 `json:"total"`
}

func TotalUtilizedForProject(projectId uint) (*ProjectUtilizationTotals, error) {
	d := db.GetDb()
	totals := ProjectUtilizationTotals{}
	err := d.Model(&models.FundUtilization{}).
		Where("project_id = ? AND donation_id IS NOT NULL", projectId).
		Select("COALESCE(SUM(amount_used), 0)").
		Scan(&totals.Linked).
		Error
	if err != nil {
		return nil, err
	}
	err = d.Model(&models.FundUtilization{}).
		Where("project_id = ? AND donation_id IS NULL", projectId).
		Select("COALESCE(SUM(amount_used), 0)").
		Scan(&totals.Unlinked).
		Error
	if err != nil {
		return nil, err
	}
	totals.Total = totals.Linked + totals.Unlinked
	return &totals, nil
}
