package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dbm "angido/internal/models/db_models"
	resp "angido/internal/models/response_models"
	"angido/internal/repositories"
	"angido/pkg/utils"
)

const (
	defaultDashboardDays     = 30
	defaultDashboardTimezone = "Asia/Ho_Chi_Minh"
	dashboardTopN            = 10
)

type DashboardService interface {
	BuildDashboard(ctx context.Context, rng resp.TimeRange, currency string) (*resp.DashboardReport, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
	log  *zap.Logger
}

func NewDashboardService(repo repositories.DashboardRepository, log *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, log: log}
}

// ParseDashboardRange accepts either last_days or an RFC3339 start/end pair.
func ParseDashboardRange(lastDays, start, end, interval, tz string) (resp.TimeRange, error) {
	var rng resp.TimeRange

	if lastDays != "" && (start != "" || end != "") {
		return rng, utils.ErrInvalidInput
	}
	if lastDays != "" {
		n, err := strconv.Atoi(lastDays)
		if err != nil || n <= 0 || n > 366 {
			return rng, utils.ErrInvalidInput
		}
		rng.End = time.Now().UTC()
		rng.Start = rng.End.AddDate(0, 0, -n)
	}
	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return rng, utils.ErrInvalidInput
		}
		rng.Start = t
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return rng, utils.ErrInvalidInput
		}
		rng.End = t
	}

	switch interval = strings.ToLower(strings.TrimSpace(interval)); interval {
	case "", "day", "week", "month":
		rng.Interval = interval
	default:
		return rng, utils.ErrInvalidInput
	}
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return rng, utils.ErrInvalidInput
		}
		rng.Timezone = tz
	}
	return rng, nil
}

// normalizeRange ensures sane defaults and ordering
func normalizeRange(r resp.TimeRange) resp.TimeRange {
	out := r
	if out.Interval == "" {
		out.Interval = "day"
	}
	if out.Timezone == "" {
		out.Timezone = defaultDashboardTimezone
	}
	if out.End.IsZero() {
		out.End = time.Now().UTC()
	}
	if out.Start.IsZero() {
		out.Start = out.End.AddDate(0, 0, -defaultDashboardDays)
	}
	if out.Start.After(out.End) {
		out.Start, out.End = out.End, out.Start
	}
	return out
}

func monthlyEquivalent(priceMinor int64, period string) int64 {
	switch period {
	case string(dbm.PeriodMonth):
		return priceMinor
	case string(dbm.PeriodYear):
		return priceMinor / 12
	default:
		return 0
	}
}

func toPoints(rows []repositories.BucketSum) ([]resp.SeriesPoint, int64) {
	points := make([]resp.SeriesPoint, 0, len(rows))
	var total int64
	for _, r := range rows {
		points = append(points, resp.SeriesPoint{Bucket: r.Bucket, Value: r.Sum})
		total += r.Sum
	}
	return points, total
}

func (s *dashboardService) BuildDashboard(ctx context.Context, rng resp.TimeRange, currency string) (*resp.DashboardReport, error) {
	rng = normalizeRange(rng)

	var (
		kpi                                            resp.KPIBlock
		aiHits                                         int64
		revenueRows, newUsersRows, newSubsRows, aiRows []repositories.BucketSum
		activeWithPlan                                 []repositories.SubWithPlan
		canceledInPeriod, subscribersAtStart           int64
		planRows                                       []repositories.PlanMixRow
		placeRows                                      []repositories.TopPlaceRow
		provinceRows                                   []repositories.TopProvinceRow
		payRows                                        []repositories.RecentPaymentRow
	)

	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			*dst = n
			return err
		})
	}

	// ---------- Core counts ----------
	count(&kpi.TotalAccounts, s.repo.CountTotalAccounts)
	count(&kpi.TotalPlaces, s.repo.CountTotalPlaces)
	count(&kpi.TotalReviews, s.repo.CountTotalReviews)
	count(&kpi.TotalItineraries, s.repo.CountTotalItineraries)
	count(&kpi.TotalActivities, s.repo.CountTotalActivities)
	count(&kpi.AICacheEntries, s.repo.CountAICacheEntries)
	count(&kpi.NewAccounts, func(ctx context.Context) (int64, error) {
		return s.repo.CountNewAccounts(ctx, rng.Start, rng.End)
	})
	count(&kpi.NewReviews, func(ctx context.Context) (int64, error) {
		return s.repo.CountNewReviews(ctx, rng.Start, rng.End)
	})
	for status, dst := range map[dbm.SubscriptionStatus]*int64{
		dbm.SubStatusActive:   &kpi.ActiveSubscriptions,
		dbm.SubStatusTrialing: &kpi.TrialingSubscriptions,
		dbm.SubStatusCanceled: &kpi.CanceledSubscriptions,
		dbm.SubStatusExpired:  &kpi.ExpiredSubscriptions,
	} {
		count(dst, func(ctx context.Context) (int64, error) {
			return s.repo.CountSubscriptionsByStatus(ctx, status)
		})
	}
	g.Go(func() (err error) {
		kpi.AIRequests, aiHits, err = s.repo.CountAIRequests(ctx, rng.Start, rng.End)
		return err
	})

	// ---------- Series ----------
	g.Go(func() (err error) {
		revenueRows, err = s.repo.RevenueSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
		return err
	})
	g.Go(func() (err error) {
		newUsersRows, err = s.repo.NewUsersSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
		return err
	})
	g.Go(func() (err error) {
		newSubsRows, err = s.repo.NewSubsSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
		return err
	})
	g.Go(func() (err error) {
		aiRows, err = s.repo.AIRequestsSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
		return err
	})

	// ---------- Financials and churn ----------
	g.Go(func() (err error) {
		activeWithPlan, err = s.repo.ActiveSubscriptionsWithPlan(ctx)
		return err
	})
	count(&canceledInPeriod, func(ctx context.Context) (int64, error) {
		return s.repo.CountCanceledInPeriod(ctx, rng.Start, rng.End)
	})
	count(&subscribersAtStart, func(ctx context.Context) (int64, error) {
		return s.repo.CountSubscribersAt(ctx, rng.Start)
	})

	// ---------- Mix, leaderboards, payments ----------
	g.Go(func() (err error) {
		planRows, err = s.repo.PlanMix(ctx)
		return err
	})
	g.Go(func() (err error) {
		placeRows, err = s.repo.TopPlaces(ctx, rng.Start, rng.End, dashboardTopN)
		return err
	})
	g.Go(func() (err error) {
		provinceRows, err = s.repo.TopProvinces(ctx, rng.Start, rng.End, dashboardTopN)
		return err
	})
	g.Go(func() (err error) {
		payRows, err = s.repo.RecentPaidTransactions(ctx, dashboardTopN)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("build dashboard", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	var mrr int64
	for _, row := range activeWithPlan {
		mrr += monthlyEquivalent(row.PriceMinor, row.Period)
	}
	kpi.MRRMinor = mrr
	kpi.ARRMinor = mrr * 12
	if n := len(activeWithPlan); n > 0 {
		kpi.ARPUMinor = float64(mrr) / float64(n)
	}
	if subscribersAtStart > 0 {
		kpi.ChurnPct = float64(canceledInPeriod) / float64(subscribersAtStart) * 100.0
	}
	if kpi.AIRequests > 0 {
		kpi.AICacheHitRatio = float64(aiHits) / float64(kpi.AIRequests)
	}

	revenuePoints, totalRevenue := toPoints(revenueRows)
	newUsersPoints, _ := toPoints(newUsersRows)
	newSubsPoints, _ := toPoints(newSubsRows)
	aiPoints, _ := toPoints(aiRows)

	var totalActive int64
	for _, r := range planRows {
		totalActive += r.Count
	}
	planMix := make([]resp.PlanMixItem, 0, len(planRows))
	for _, r := range planRows {
		var pct float64
		if totalActive > 0 {
			pct = float64(r.Count) * 100.0 / float64(totalActive)
		}
		planID, _ := uuid.Parse(r.PlanID)
		planMix = append(planMix, resp.PlanMixItem{
			PlanID:     planID,
			PlanCode:   r.PlanCode,
			PlanName:   r.PlanName,
			Count:      r.Count,
			Percent:    pct,
			Period:     r.Period,
			PriceMinor: r.PriceMinor,
		})
	}

	topPlaces := make([]resp.TopPlace, 0, len(placeRows))
	for _, r := range placeRows {
		id, _ := uuid.Parse(r.PlaceID)
		topPlaces = append(topPlaces, resp.TopPlace{PlaceID: id, Name: r.Name, AvgRating: r.AvgRating, ReviewCount: r.Count})
	}
	topProvinces := make([]resp.TopProvince, 0, len(provinceRows))
	for _, r := range provinceRows {
		id, _ := uuid.Parse(r.ProvinceID)
		topProvinces = append(topProvinces, resp.TopProvince{ProvinceID: id, Name: r.Name, Count: r.Count})
	}

	recent := make([]resp.RecentPayment, 0, len(payRows))
	for _, r := range payRows {
		id, _ := uuid.Parse(r.ID)
		recent = append(recent, resp.RecentPayment{
			ID:           id,
			PaidAt:       r.PaidAt,
			AmountMinor:  r.AmountMinor,
			Currency:     r.Currency,
			Status:       r.Status,
			Provider:     r.Provider,
			Reference:    r.Reference,
			AccountEmail: r.AccountEmail,
		})
	}

	return &resp.DashboardReport{
		Range:          rng,
		KPIs:           kpi,
		Revenue:        resp.RevenueSeries{Currency: currency, Points: revenuePoints, TotalMinor: totalRevenue},
		NewUsers:       resp.CountSeries{Points: newUsersPoints},
		NewSubs:        resp.CountSeries{Points: newSubsPoints},
		AIRequests:     resp.CountSeries{Points: aiPoints},
		PlanMix:        resp.PlanMix{Items: planMix},
		TopPlaces:      topPlaces,
		TopProvinces:   topProvinces,
		RecentPayments: recent,
	}, nil
}
