// Package seo собирает JSON-LD разметку schema.org для страниц вакансий.
package seo

import (
	"time"

	"github.com/worknowjob/worknow-api/internal/models"
)

// Срок действия объявления для validThrough.
const postingTTL = 30 * 24 * time.Hour

// JobPosting возвращает разметку schema.org/JobPosting для вакансии.
func JobPosting(job *models.Job) map[string]any {
	posting := map[string]any{
		"@context":       "https://schema.org",
		"@type":          "JobPosting",
		"title":          job.Title,
		"description":    job.Description,
		"datePosted":     job.CreatedAt.Format("2006-01-02"),
		"validThrough":   job.CreatedAt.Add(postingTTL).Format("2006-01-02"),
		"employmentType": "FULL_TIME",
		"hiringOrganization": map[string]any{
			"@type":  "Organization",
			"name":   "WorkNow",
			"sameAs": "https://worknowjob.com",
		},
		"jobLocation": map[string]any{
			"@type": "Place",
			"address": map[string]any{
				"@type":           "PostalAddress",
				"addressLocality": job.CityName,
				"addressCountry":  "IL",
			},
		},
	}

	if job.Salary > 0 {
		posting["baseSalary"] = map[string]any{
			"@type":    "MonetaryAmount",
			"currency": "ILS",
			"value": map[string]any{
				"@type":    "QuantitativeValue",
				"value":    job.Salary,
				"unitText": "HOUR",
			},
		}
	}
	if job.CategoryName != "" {
		posting["occupationalCategory"] = job.CategoryName
	}

	return posting
}
