package services

import (
	"fmt"
	"strings"

	"angido/internal/models/db_models"
)

func describeCandidate(p *db_models.Place) string {
	line := fmt.Sprintf("PLACE_ID: %s | Name: %s | Category: %s | Price: %d-%d VND | Rating: %.1f (%d reviews)",
		p.ID.String(), p.Name, p.Category, p.MinPrice, p.MaxPrice, p.AvgRating, p.ReviewCount)
	if p.Address != "" {
		line += fmt.Sprintf(" | Address: %s", p.Address)
	}
	if len(p.OpeningHours) > 0 {
		line += fmt.Sprintf(" | Hours: %s", strings.Join(p.OpeningHours, ", "))
	}
	if len(p.Tags) > 0 {
		names := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			names = append(names, t.EnName)
		}
		line += fmt.Sprintf(" | Tags: %s", strings.Join(names, ", "))
	}
	return line
}

func buildSuggestionPrompt(params *SuggestionParams, candidates []db_models.Place) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Create a %d-day food and place itinerary for %d people.\n", params.Days, params.People))
	if params.City != "" {
		prompt.WriteString(fmt.Sprintf("Destination: %s\n", params.City))
	}
	prompt.WriteString(fmt.Sprintf("Budget level: %s\n", params.Budget))
	if params.MaxPricePerPerson != nil {
		prompt.WriteString(fmt.Sprintf("Max price per person per meal: %d VND\n", *params.MaxPricePerPerson))
	}
	if len(params.Preferences) > 0 {
		prompt.WriteString(fmt.Sprintf("Preferences: %s\n", strings.Join(params.Preferences, ", ")))
	}
	if params.Note != "" {
		prompt.WriteString(fmt.Sprintf("Traveller note: %s\n", params.Note))
	}

	prompt.WriteString("\nAvailable places:\n")
	for i := range candidates {
		prompt.WriteString("- ")
		prompt.WriteString(describeCandidate(&candidates[i]))
		prompt.WriteString("\n")
	}

	prompt.WriteString("\nCRITICAL REQUIREMENTS:\n")
	prompt.WriteString(fmt.Sprintf("1. Generate exactly %d days\n", params.Days))
	prompt.WriteString("2. Use only exact PLACE_ID values from the list above\n")
	prompt.WriteString("3. 3 to 5 activities per day, no place repeated across the whole plan\n")
	prompt.WriteString("4. Times are 24h \"HH:MM\" in local Vietnam time, respecting opening hours\n")
	prompt.WriteString("5. estimated_cost is the total for the whole group in VND\n")
	if params.Lang == "en" {
		prompt.WriteString("6. Write title, summary, theme and note in English\n")
	} else {
		prompt.WriteString("6. Write title, summary, theme and note in Vietnamese\n")
	}
	prompt.WriteString("7. Return ONLY valid JSON, no extra text\n\n")

	prompt.WriteString("Return JSON in this EXACT format:\n")
	prompt.WriteString(`{
  "title": "Short itinerary title",
  "summary": "One or two sentences",
  "days": [
    {
      "day": 1,
      "theme": "Theme of the day",
      "activities": [
        {
          "place_id": "exact-place-id-from-list",
          "place_name": "Place name",
          "start_time": "07:30",
          "end_time": "08:30",
          "note": "What to order or do",
          "estimated_cost": 120000
        }
      ]
    }
  ]
}`)
	return prompt.String()
}
