package model

// Clone returns a deep copy of the product so callers can hand records
// across API boundaries without sharing engine state.
func (p Product) Clone() Product {
	out := p
	out.PriceHistory = append([]PricePoint(nil), p.PriceHistory...)
	out.Sources = cloneSources(p.Sources)
	out.Features = append([]string(nil), p.Features...)
	out.Images = append([]string(nil), p.Images...)
	out.Tags = append([]string(nil), p.Tags...)
	out.Keywords = append([]string(nil), p.Keywords...)
	if p.Specifications != nil {
		out.Specifications = make(map[string]string, len(p.Specifications))
		for k, v := range p.Specifications {
			out.Specifications[k] = v
		}
	}
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		out.OriginalPrice = &v
	}
	if p.DiscountPercentage != nil {
		v := *p.DiscountPercentage
		out.DiscountPercentage = &v
	}
	if p.Ratings != nil {
		r := *p.Ratings
		if p.Ratings.Distribution != nil {
			d := *p.Ratings.Distribution
			r.Distribution = &d
		}
		out.Ratings = &r
	}
	if p.ReviewsSentiment != nil {
		s := *p.ReviewsSentiment
		s.TopPros = append([]string(nil), p.ReviewsSentiment.TopPros...)
		s.TopCons = append([]string(nil), p.ReviewsSentiment.TopCons...)
		s.SampleReviews = append([]string(nil), p.ReviewsSentiment.SampleReviews...)
		out.ReviewsSentiment = &s
	}
	return out
}

func cloneSources(src []ProductSource) []ProductSource {
	if src == nil {
		return nil
	}
	out := make([]ProductSource, len(src))
	for i, s := range src {
		out[i] = s
		if s.Price != nil {
			v := *s.Price
			out[i].Price = &v
		}
		if s.Availability != nil {
			a := *s.Availability
			out[i].Availability = &a
		}
	}
	return out
}

// CloneProducts deep-copies a product slice.
func CloneProducts(src []Product) []Product {
	out := make([]Product, len(src))
	for i, p := range src {
		out[i] = p.Clone()
	}
	return out
}
