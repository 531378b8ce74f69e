package provider

import (
	"sort"
	"strings"

	"github.com/gcourse-cli/gcourse/hls"
	"github.com/samber/mo"
)

// Candidate is a scored manifest URL retained for one logical video.
type Candidate struct {
	Score int
	URL   string
}

// CandidateSet tracks the single best observed manifest URL per logical
// video identifier. Observations arrive as manifest URLs are discovered (for
// example from intercepted player traffic); for one identifier the highest
// provider score wins, a tie going to the later observation.
//
// A CandidateSet is not safe for concurrent use; feed it from a single
// goroutine or guard it externally.
type CandidateSet struct {
	quality string
	best    map[string]Candidate
	order   []string
}

// NewCandidateSet creates a set selecting for the given quality setting
// ("auto" or a fixed resolution token).
func NewCandidateSet(quality string) *CandidateSet {
	return &CandidateSet{
		quality: strings.ToLower(quality),
		best:    make(map[string]Candidate),
	}
}

// Observe records a manifest URL. URLs without a provider tag still
// participate, ranked at the default score.
//
// For auto quality only URLs carrying a known resolution token qualify, and
// the retained URL keeps whichever token it was observed with: the ladder is
// scanned highest-first and the first match decides. For a fixed quality the
// URL's token is rewritten to the requested resolution.
func (s *CandidateSet) Observe(url string) {
	id := ExtractVideoID(url)
	score := Score(ExtractProvider(url))

	if s.quality == hls.QualityAuto {
		for _, resolution := range hls.QualityLevels {
			if strings.Contains(url, "/"+resolution+"?") {
				s.put(id, Candidate{Score: score, URL: url})
				break
			}
		}
		return
	}

	s.put(id, Candidate{Score: score, URL: hls.RewriteQuality(url, s.quality)})
}

func (s *CandidateSet) put(id string, c Candidate) {
	current, seen := s.best[id]
	if !seen {
		s.order = append(s.order, id)
	}
	if seen && current.Score > c.Score {
		return
	}
	s.best[id] = c
}

// Len returns the number of distinct logical videos observed.
func (s *CandidateSet) Len() int {
	return len(s.best)
}

// Best returns the retained candidate for a logical video identifier.
func (s *CandidateSet) Best(id string) mo.Option[Candidate] {
	if c, ok := s.best[id]; ok {
		return mo.Some(c)
	}
	return mo.None[Candidate]()
}

// Ranked returns the surviving URLs ordered by descending provider score.
// When one lesson carries several distinct logical videos (parallel tracks),
// this is the attempt order. Ties keep observation order, which keeps the
// result deterministic.
func (s *CandidateSet) Ranked() []string {
	ids := append([]string(nil), s.order...)
	sort.SliceStable(ids, func(i, j int) bool {
		return s.best[ids[i]].Score > s.best[ids[j]].Score
	})

	urls := make([]string, len(ids))
	for i, id := range ids {
		urls[i] = s.best[id].URL
	}
	return urls
}
