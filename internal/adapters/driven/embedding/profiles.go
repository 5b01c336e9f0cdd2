// Package embedding wires embedding profiles to concrete providers and
// provides decorators for degraded operation and rate limiting.
package embedding

import (
	"fmt"
	"os"
	"sort"

	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Provider identifies which service backs a profile.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// Profile describes a named embedding configuration. The profile fixes
// the model and its dimensionality; vectors from different profiles are
// never comparable.
type Profile struct {
	ID         string
	Provider   Provider
	Model      string
	Dimensions int
}

// profiles is the registry of supported embedding profiles.
var profiles = map[string]Profile{
	"nomic-embed-text": {
		ID:         "nomic-embed-text",
		Provider:   ProviderOllama,
		Model:      "nomic-embed-text",
		Dimensions: 768,
	},
	"all-minilm": {
		ID:         "all-minilm",
		Provider:   ProviderOllama,
		Model:      "all-minilm",
		Dimensions: 384,
	},
	"text-embedding-3-small": {
		ID:         "text-embedding-3-small",
		Provider:   ProviderOpenAI,
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
	},
}

// KnownProfiles returns the supported profile IDs, sorted.
func KnownProfiles() []string {
	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LookupProfile returns the profile for the given ID.
func LookupProfile(id string) (Profile, error) {
	p, ok := profiles[id]
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown profile %q (known: %v)",
			domain.ErrProfileUnavailable, id, KnownProfiles())
	}
	return p, nil
}

// NewFromProfile constructs the embedding service for a profile.
// Misconfiguration (unknown profile, missing API key) fails here, at
// startup; transient provider failures surface later, per request.
func NewFromProfile(profileID string) (driven.EmbeddingService, error) {
	p, err := LookupProfile(profileID)
	if err != nil {
		return nil, err
	}

	switch p.Provider {
	case ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			Model:      p.Model,
			Dimensions: p.Dimensions,
		}), nil

	case ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: profile %q requires OPENAI_API_KEY",
				domain.ErrProfileUnavailable, profileID)
		}
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:     apiKey,
			Model:      p.Model,
			Dimensions: p.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrProfileUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: profile %q has unsupported provider %q",
			domain.ErrProfileUnavailable, profileID, p.Provider)
	}
}
