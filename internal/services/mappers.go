package services

import (
	"encoding/json"
	"math"
	"time"

	dbm "angido/internal/models/db_models"
	resp "angido/internal/models/response_models"
	"angido/pkg/utils"
)

func toAccountResponse(a *dbm.Account, sub *dbm.Subscription) *resp.AccountResponse {
	out := &resp.AccountResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		Status:    string(a.Status),
		Avatar:    a.Avatar,
		CreatedAt: utils.FormatRFC3339VN(utils.FromUnixSecondsVN(a.CreatedAt)),
	}
	if sub != nil {
		out.Subscription = toSubscriptionStatus(sub)
	}
	return out
}

func toSubscriptionStatus(sub *dbm.Subscription) *resp.SubscriptionStatusResponse {
	return &resp.SubscriptionStatusResponse{
		AccountID:    sub.AccountID,
		PlanCode:     sub.Plan.Code,
		PlanName:     sub.Plan.Name,
		Status:       string(sub.Status),
		StartsAt:     sub.StartsAt,
		EndsAt:       sub.EndsAt,
		AutoRenew:    sub.AutoRenew,
		AIDailyQuota: sub.Plan.AIDailyQuota,
	}
}

func toPlanResponse(p *dbm.Plan) resp.SubscriptionPlan {
	var features []string
	if len(p.Features) > 0 {
		// Features may be stored as an object by older rows; ignore those.
		_ = json.Unmarshal(p.Features, &features)
	}
	return resp.SubscriptionPlan{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Description:     p.Description,
		BackgroundImage: p.BackgroundImage,
		Period:          string(p.Period),
		Price:           p.PriceMinor,
		Currency:        p.Currency,
		TrialDays:       p.TrialDays,
		AIDailyQuota:    p.AIDailyQuota,
		IsActive:        p.IsActive,
		Features:        features,
	}
}

func toTransactionResponse(t *dbm.Transaction) resp.TransactionResponse {
	return resp.TransactionResponse{
		ID:           t.ID,
		Reference:    t.Reference,
		AccountID:    t.AccountID,
		AccountEmail: t.Account.Email,
		PlanCode:     t.Plan.Code,
		AmountMinor:  t.AmountMinor,
		Currency:     t.Currency,
		Status:       string(t.Status),
		Provider:     t.Provider,
		CreatedAt:    t.CreatedAt,
		PaidAt:       t.PaidAt,
	}
}

func toTagResponse(t *dbm.Tag) resp.TagResponse {
	return resp.TagResponse{
		ID:     t.ID.String(),
		EnName: t.EnName,
		ViName: t.ViName,
		Icon:   t.Icon,
	}
}

func toProvinceResponse(p *dbm.Province) resp.ProvinceResponse {
	return resp.ProvinceResponse{
		ID:   p.ID.String(),
		Name: p.Name,
		Code: p.Code,
	}
}

func toPlaceSummary(p *dbm.Place) resp.PlaceSummary {
	out := resp.PlaceSummary{
		ID:          p.ID.String(),
		Name:        p.Name,
		Slug:        p.Slug,
		Category:    string(p.Category),
		Address:     p.Address,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		MinPrice:    p.MinPrice,
		MaxPrice:    p.MaxPrice,
		PriceLevel:  p.PriceLevel,
		AvgRating:   p.AvgRating,
		ReviewCount: p.ReviewCount,
	}
	if len(p.Images) > 0 {
		out.Thumbnail = p.Images[0]
	}
	for _, t := range p.Tags {
		out.Tags = append(out.Tags, t.ViName)
	}
	return out
}

func toPlaceResponse(p *dbm.Place) *resp.PlaceResponse {
	out := &resp.PlaceResponse{
		PlaceSummary: toPlaceSummary(p),
		Description:  p.Description,
		OpeningHours: emptyIfNil(p.OpeningHours),
		Phone:        p.Phone,
		Website:      p.Website,
		Images:       emptyIfNil(p.Images),
		TagDetails:   make([]resp.TagResponse, 0, len(p.Tags)),
		Status:       string(p.Status),
		CreatedAt:    utils.FormatRFC3339VN(utils.FromUnixSecondsVN(p.CreatedAt)),
		UpdatedAt:    utils.FormatRFC3339VN(utils.FromUnixSecondsVN(p.UpdatedAt)),
	}
	if p.Province != nil {
		pr := toProvinceResponse(p.Province)
		out.Province = &pr
	}
	for i := range p.Tags {
		out.TagDetails = append(out.TagDetails, toTagResponse(&p.Tags[i]))
	}
	return out
}

func toReviewResponse(r *dbm.Review) resp.ReviewResponse {
	return resp.ReviewResponse{
		ID:        r.ID.String(),
		PlaceID:   r.PlaceID.String(),
		PlaceName: r.Place.Name,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Images:    emptyIfNil(r.Images),
		Author: resp.ReviewAuthor{
			ID:     r.AccountID.String(),
			Name:   r.Account.Name,
			Avatar: r.Account.Avatar,
		},
		CreatedAt: utils.FormatRFC3339VN(utils.FromUnixSecondsVN(r.CreatedAt)),
		UpdatedAt: utils.FormatRFC3339VN(utils.FromUnixSecondsVN(r.UpdatedAt)),
	}
}

// inclusiveDays counts calendar days in [start, end] in Vietnam time.
func inclusiveDays(start, end time.Time) int {
	s := utils.StartOfDayVN(start)
	e := utils.StartOfDayVN(end)
	if e.Before(s) {
		return 0
	}
	return int(math.Round(e.Sub(s).Hours()/24)) + 1
}

func toItinerarySummary(it *dbm.Itinerary) resp.ItinerarySummary {
	return resp.ItinerarySummary{
		ID:           it.ID.String(),
		Title:        it.Title,
		StartDate:    utils.FormatDateVN(it.StartDate),
		EndDate:      utils.FormatDateVN(it.EndDate),
		DurationDays: inclusiveDays(it.StartDate, it.EndDate),
		Source:       string(it.Source),
		IsPublic:     it.IsPublic,
		CreatedAt:    utils.FormatRFC3339VN(utils.FromUnixSecondsVN(it.CreatedAt)),
	}
}

func toItineraryDetail(it *dbm.Itinerary) *resp.ItineraryDetailResponse {
	out := &resp.ItineraryDetailResponse{
		ID:           it.ID.String(),
		OwnerID:      it.AccountID.String(),
		Title:        it.Title,
		Description:  it.Description,
		StartDate:    utils.FormatDateVN(it.StartDate),
		EndDate:      utils.FormatDateVN(it.EndDate),
		DurationDays: inclusiveDays(it.StartDate, it.EndDate),
		Source:       string(it.Source),
		IsPublic:     it.IsPublic,
		TotalDays:    len(it.Days),
		Days:         make([]resp.ItineraryDayResponse, 0, len(it.Days)),
	}
	if it.SuggestionID != nil {
		id := it.SuggestionID.String()
		out.SuggestionID = &id
	}

	for _, d := range it.Days {
		day := resp.ItineraryDayResponse{
			ID:         d.ID.String(),
			DayNumber:  d.DayNumber,
			Date:       utils.FormatDateVN(d.Date),
			Activities: make([]resp.ItineraryActivityResponse, 0, len(d.Activities)),
		}
		for _, a := range d.Activities {
			act := resp.ItineraryActivityResponse{
				ID:            a.ID.String(),
				StartTime:     utils.FormatRFC3339VN(a.StartTime),
				Note:          a.Note,
				EstimatedCost: a.EstimatedCost,
			}
			if a.EndTime != nil {
				act.EndTime = utils.FormatRFC3339VN(*a.EndTime)
			}
			if a.Place.ID == a.PlaceID {
				summary := toPlaceSummary(&a.Place)
				act.Place = &summary
			}
			day.Activities = append(day.Activities, act)
			out.TotalActivities++
			out.TotalEstimatedCost += a.EstimatedCost
		}
		out.Days = append(out.Days, day)
	}
	return out
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
