package models

import (
	"time"
)

// Plan is a pricing tier. The plan a submission is ordered with decides
// its initial review status.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanBasic    Plan = "basic"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanPro, PlanBusiness:
		return true
	}

	return false
}

// Paid reports whether the plan is a paying tier.
func (p Plan) Paid() bool {
	return p.Valid() && p != PlanFree
}

// Status is the submission lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}

	return false
}

// Category is the directory category a website is listed under.
type Category string

const (
	CategoryBusiness  Category = "Business"
	CategoryBlog      Category = "Blog"
	CategoryEcommerce Category = "E-commerce"
	CategoryPortfolio Category = "Portfolio"
	CategoryOther     Category = "Other"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryBusiness,
	CategoryBlog,
	CategoryEcommerce,
	CategoryPortfolio,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}

	return false
}

// User is a registered user. Users are auto-registered by email on
// first contact, so creation is idempotent per email.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Credits      int       `json:"credits"`
	Plan         Plan      `json:"plan"`
	ReferralCode string    `json:"referralCode"`
	Earnings     float64   `json:"earnings"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Submission is a website submitted to the directory. A submission may
// outlive its user; no referential integrity is enforced.
type Submission struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	WebsiteURL      string    `json:"websiteUrl"`
	WebsiteName     string    `json:"websiteName"`
	Category        Category  `json:"category"`
	Description     string    `json:"description"`
	Plan            Plan      `json:"plan"`
	Status          Status    `json:"status"`
	SubmissionDate  time.Time `json:"submissionDate"`
	Visitors        int       `json:"visitors"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
}

// Stats aggregates the submissions collection for the admin panel.
// Revenue is a flat per-paid-submission amount, not a sum of plan prices.
type Stats struct {
	TotalSubmissions int `json:"totalSubmissions"`
	Pending          int `json:"pending"`
	Approved         int `json:"approved"`
	Rejected         int `json:"rejected"`
	Revenue          int `json:"revenue"`
}

// PlanInfo describes a plan as presented on the pricing step.
type PlanInfo struct {
	ID       Plan     `json:"id"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	Visitors string   `json:"visitors"`
	Features []string `json:"features"`
}

// PlanCatalog returns the plans offered on the submission wizard's
// pricing step, in display order.
func PlanCatalog() []PlanInfo {
	return []PlanInfo{
		{
			ID:       PlanFree,
			Name:     "Free Forever",
			Price:    0,
			Visitors: "50 Visitors",
			Features: []string{"Basic Listing", "Manual Review (24-72h)", "Standard Support"},
		},
		{
			ID:       PlanBasic,
			Name:     "Basic",
			Price:    99,
			Visitors: "500 Visitors",
			Features: []string{"Standard Listing", "Instant Approval", "Standard Support"},
		},
		{
			ID:       PlanPro,
			Name:     "Pro",
			Price:    199,
			Visitors: "2,000 Visitors",
			Features: []string{"Priority Listing", "Instant Approval", "No Ads in Dashboard", "Do-Follow Backlinks"},
		},
		{
			ID:       PlanBusiness,
			Name:     "Business",
			Price:    499,
			Visitors: "5,000 Visitors",
			Features: []string{"Featured Listing", "Priority Support", "Instant Approval", "Extended Reach"},
		},
	}
}

// PlanPrice returns the listed price for a plan, 0 for unknown plans.
func PlanPrice(p Plan) int {
	for _, info := range PlanCatalog() {
		if info.ID == p {
			return info.Price
		}
	}

	return 0
}

// APIError is the JSON error envelope returned by the HTTP API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
