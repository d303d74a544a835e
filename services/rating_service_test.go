package services

import (
	"testing"

	"github.com/varsityrank/api/model"
)

func TestAveragesOf(t *testing.T) {
	t.Run("empty set yields zero aggregates", func(t *testing.T) {
		avg := AveragesOf(nil)
		if avg.Academic != 0 || avg.Facilities != 0 || avg.SocialLife != 0 || avg.CareerProspects != 0 || avg.CostOfLiving != 0 {
			t.Errorf("expected zero aggregates, got %+v", avg)
		}
		if avg.Overall() != 0 {
			t.Errorf("expected zero overall, got %f", avg.Overall())
		}
	})

	t.Run("single review", func(t *testing.T) {
		avg := AveragesOf([]model.Review{
			{AcademicRating: 8, FacilitiesRating: 7, SocialLifeRating: 9, CareerProspectsRating: 6, CostOfLiving: 1200},
		})
		if avg.Academic != 8 || avg.Facilities != 7 || avg.SocialLife != 9 || avg.CareerProspects != 6 {
			t.Errorf("unexpected averages: %+v", avg)
		}
		if avg.CostOfLiving != 1200 {
			t.Errorf("expected cost of living 1200, got %f", avg.CostOfLiving)
		}
		if got := avg.Overall(); got != 7.5 {
			t.Errorf("expected overall 7.5, got %f", got)
		}
	})

	t.Run("multiple reviews average per dimension", func(t *testing.T) {
		avg := AveragesOf([]model.Review{
			{AcademicRating: 10, FacilitiesRating: 8, SocialLifeRating: 6, CareerProspectsRating: 4, CostOfLiving: 1000},
			{AcademicRating: 6, FacilitiesRating: 4, SocialLifeRating: 8, CareerProspectsRating: 10, CostOfLiving: 2000},
		})
		if avg.Academic != 8 {
			t.Errorf("expected academic 8, got %f", avg.Academic)
		}
		if avg.Facilities != 6 {
			t.Errorf("expected facilities 6, got %f", avg.Facilities)
		}
		if avg.SocialLife != 7 {
			t.Errorf("expected social life 7, got %f", avg.SocialLife)
		}
		if avg.CareerProspects != 7 {
			t.Errorf("expected career prospects 7, got %f", avg.CareerProspects)
		}
		if avg.CostOfLiving != 1500 {
			t.Errorf("expected cost of living 1500, got %f", avg.CostOfLiving)
		}
	})

	t.Run("cost of living excluded from overall", func(t *testing.T) {
		low := AveragesOf([]model.Review{
			{AcademicRating: 5, FacilitiesRating: 5, SocialLifeRating: 5, CareerProspectsRating: 5, CostOfLiving: 100},
		})
		high := AveragesOf([]model.Review{
			{AcademicRating: 5, FacilitiesRating: 5, SocialLifeRating: 5, CareerProspectsRating: 5, CostOfLiving: 9000},
		})
		if low.Overall() != high.Overall() {
			t.Errorf("cost of living leaked into overall: %f vs %f", low.Overall(), high.Overall())
		}
	})
}

func TestReviewComputeOverall(t *testing.T) {
	r := model.Review{AcademicRating: 8, FacilitiesRating: 7, SocialLifeRating: 9, CareerProspectsRating: 6, CostOfLiving: 5000}
	if got := r.ComputeOverall(); got != 7.5 {
		t.Errorf("expected 7.5, got %f", got)
	}
}
