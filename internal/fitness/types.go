package fitness

import "time"

// Workout is a training session owned by exactly one account. Completed is
// nil until the session has been finished.
type Workout struct {
	ID          string     `json:"id"`
	AccountID   string     `json:"account_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Completed   *time.Time `json:"completed,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwnerAccountID satisfies the authorization layer's owned-resource contract.
func (w *Workout) OwnerAccountID() string { return w.AccountID }

// Exercise is a shared catalog entry. Exercises are readable by anyone and
// maintained by admins; workouts reference them through links.
type Exercise struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	BodyPart         string    `json:"body_part,omitempty"`
	VideoURL         string    `json:"video_url,omitempty"`
	BurnedCalories   float64   `json:"burned_calories"`
	IsWeightTraining *bool     `json:"is_weight_training,omitempty"`
	Difficulty       int       `json:"difficulty"`
	Series           int       `json:"series"`
	Repetition       int       `json:"repetition"`
	Weight           int       `json:"weight"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Product is a food catalog entry. Macro fields refer to the product's
// default weight and may be absent.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Carbs     *float64  `json:"carbs,omitempty"`
	Fat       *float64  `json:"fat,omitempty"`
	Protein   *float64  `json:"protein,omitempty"`
	Barcode   string    `json:"barcode,omitempty"`
	Weight    *int      `json:"weight,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssignedProduct is one food-diary entry: a product eaten by an account on
// a calendar day. At most one entry exists per (account, product, day).
type AssignedProduct struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	ProductID string    `json:"product_id"`
	Added     time.Time `json:"added"`
	Weight    *int      `json:"weight,omitempty"`
	Count     int       `json:"count"`
}

func (p *AssignedProduct) OwnerAccountID() string { return p.AccountID }

// dayOf collapses a timestamp to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
