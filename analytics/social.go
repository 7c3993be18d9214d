package analytics

import (
	"context"
	"time"

	"opsdash/utilities"
)

const DefaultSocialLatency = 600 * time.Millisecond

type Post struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
	Plays    int    `json:"plays,omitempty"`
	Reach    int    `json:"reach,omitempty"`
	Posted   string `json:"date"`
}

type SocialSummary struct {
	Followers      int     `json:"followers"`
	NewFollowers   int     `json:"newFollowers"`
	Reach          int     `json:"reach"`
	EngagementRate float64 `json:"engagementRate"`
	ProfileViews   int     `json:"profileViews"`
	WebsiteClicks  int     `json:"websiteClicks"`
	RecentPosts    []Post  `json:"recentPosts"`
}

type SocialSource interface {
	FetchSummary(ctx context.Context, r DateRange) SocialSummary
}

type StubSocial struct {
	Latency time.Duration
}

func NewStubSocial() *StubSocial {
	return &StubSocial{Latency: DefaultSocialLatency}
}

func (s *StubSocial) FetchSummary(ctx context.Context, _ DateRange) SocialSummary {
	if !wait(ctx, s.Latency) {
		utilities.LogDebug("Busca de redes sociais cancelada: %v", ctx.Err())
		return SocialSummary{RecentPosts: []Post{}}
	}
	return SocialSummary{
		Followers:      45200,
		NewFollowers:   1250,
		Reach:          125000,
		EngagementRate: 4.2,
		ProfileViews:   15400,
		WebsiteClicks:  3200,
		RecentPosts: []Post{
			{ID: "p1", Type: "Reel", Likes: 4500, Comments: 320, Plays: 45000, Posted: "2h ago"},
			{ID: "p2", Type: "Carousel", Likes: 1200, Comments: 85, Reach: 12000, Posted: "1d ago"},
			{ID: "p3", Type: "Image", Likes: 850, Comments: 45, Reach: 8500, Posted: "2d ago"},
		},
	}
}
