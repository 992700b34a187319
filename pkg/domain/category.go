package domain

import (
	"strings"
)

// Category is a canonical display category.
type Category string

const (
	CategoryHackathon  Category = "Hackathon"
	CategoryWorkshop   Category = "Workshop"
	CategoryMeetup     Category = "Meetup"
	CategoryConference Category = "Conference"
	CategoryExpo       Category = "Expo"
	CategoryOther      Category = "Other"
)

// Categories lists every canonical label.
var Categories = []Category{
	CategoryHackathon,
	CategoryWorkshop,
	CategoryMeetup,
	CategoryConference,
	CategoryExpo,
	CategoryOther,
}

// CategoryFilter is either FilterAll or one canonical Category.
type CategoryFilter string

// FilterAll disables a filter dimension. It is shared by both filters.
const FilterAll = "all"

const CategoryAll CategoryFilter = FilterAll

// CategoryControls are the category buttons offered to the user, in order.
var CategoryControls = []CategoryFilter{
	CategoryAll,
	CategoryFilter(CategoryHackathon),
	CategoryFilter(CategoryWorkshop),
	CategoryFilter(CategoryMeetup),
	CategoryFilter(CategoryConference),
	CategoryFilter(CategoryOther),
}

// ParseCategoryFilter accepts "all" or a canonical label, ignoring case.
func ParseCategoryFilter(label string) (CategoryFilter, error) {
	label = strings.TrimSpace(label)
	if strings.EqualFold(label, FilterAll) {
		return CategoryAll, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(label, string(c)) {
			return CategoryFilter(c), nil
		}
	}
	return "", ValidationError{Field: "category", Message: "unknown filter " + label, Err: ErrInvalidFilter}
}

// Matches reports whether c passes the filter.
func (f CategoryFilter) Matches(c Category) bool {
	return f == CategoryAll || Category(f) == c
}

// PriceFilter selects free, paid or all events.
type PriceFilter string

const (
	PriceAll  PriceFilter = FilterAll
	PriceFree PriceFilter = "free"
	PricePaid PriceFilter = "paid"
)

var PriceControls = []PriceFilter{PriceAll, PriceFree, PricePaid}

func ParsePriceFilter(label string) (PriceFilter, error) {
	switch PriceFilter(strings.ToLower(strings.TrimSpace(label))) {
	case PriceAll:
		return PriceAll, nil
	case PriceFree:
		return PriceFree, nil
	case PricePaid:
		return PricePaid, nil
	}
	return "", ValidationError{Field: "price", Message: "unknown filter " + label, Err: ErrInvalidFilter}
}

// Matches reports whether an event with the given is_free flag passes.
func (f PriceFilter) Matches(isFree Flag) bool {
	switch f {
	case PriceFree:
		return bool(isFree)
	case PricePaid:
		return !bool(isFree)
	default:
		return true
	}
}
