package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type CredentialRef struct {
	Service string
	Key     string
}

func (r CredentialRef) String() string {
	return r.Service + "/" + r.Key
}

type CredentialShape string

const (
	ShapeSimple CredentialShape = "simple"
	ShapeOAuth1 CredentialShape = "oauth1"
)

func ShapeFor(platform Platform) CredentialShape {
	if platform == PlatformTwitter {
		return ShapeOAuth1
	}

	return ShapeSimple
}

// Fields returns the prompt labels for every secret the shape is made of.
func (s CredentialShape) Fields() []string {
	if s == ShapeOAuth1 {
		return []string{"consumer key", "consumer secret", "access token", "access token secret"}
	}

	return []string{"token"}
}

type OAuth1 struct {
	ConsumerKey       string `json:"consumer_key"`
	ConsumerSecret    string `json:"consumer_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
}

func (o OAuth1) validate() error {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(o.ConsumerKey) == "" {
		missing = append(missing, "consumer_key")
	}
	if strings.TrimSpace(o.ConsumerSecret) == "" {
		missing = append(missing, "consumer_secret")
	}
	if strings.TrimSpace(o.AccessToken) == "" {
		missing = append(missing, "access_token")
	}
	if strings.TrimSpace(o.AccessTokenSecret) == "" {
		missing = append(missing, "access_token_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMalformedCredential, strings.Join(missing, ", "))
	}

	return nil
}

// Credential holds exactly one of a simple secret or an OAuth1 bundle. The
// zero value holds neither.
type Credential struct {
	shape  CredentialShape
	simple string
	oauth1 OAuth1
}

func SimpleCredential(secret string) Credential {
	return Credential{shape: ShapeSimple, simple: secret}
}

func OAuth1Credential(bundle OAuth1) Credential {
	return Credential{shape: ShapeOAuth1, oauth1: bundle}
}

func (c Credential) Shape() CredentialShape { return c.shape }

func (c Credential) Simple() (string, bool) {
	return c.simple, c.shape == ShapeSimple
}

func (c Credential) OAuth1() (OAuth1, bool) {
	return c.oauth1, c.shape == ShapeOAuth1
}

func (c Credential) String() string {
	if c.shape == "" {
		return "credential(none)"
	}

	return fmt.Sprintf("credential(%s, redacted)", c.shape)
}

func (c Credential) GoString() string { return c.String() }

// ParseCredential decodes a raw secret-store value into the given shape.
func ParseCredential(shape CredentialShape, raw string) (Credential, error) {
	switch shape {
	case ShapeSimple:
		secret := strings.TrimSpace(raw)
		if secret == "" {
			return Credential{}, fmt.Errorf("%w: empty secret", ErrMalformedCredential)
		}
		return SimpleCredential(secret), nil
	case ShapeOAuth1:
		var bundle OAuth1
		if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
			return Credential{}, fmt.Errorf("%w: decode oauth1 bundle: %v", ErrMalformedCredential, err)
		}
		if err := bundle.validate(); err != nil {
			return Credential{}, err
		}
		return OAuth1Credential(bundle), nil
	default:
		return Credential{}, fmt.Errorf("%w: unknown shape %q", ErrMalformedCredential, shape)
	}
}

// NewCredential assembles a credential from prompted field values, in the
// order returned by CredentialShape.Fields.
func NewCredential(shape CredentialShape, values []string) (Credential, error) {
	if len(values) != len(shape.Fields()) {
		return Credential{}, fmt.Errorf("%w: expected %d values, got %d", ErrMalformedCredential, len(shape.Fields()), len(values))
	}

	if shape == ShapeOAuth1 {
		bundle := OAuth1{
			ConsumerKey:       strings.TrimSpace(values[0]),
			ConsumerSecret:    strings.TrimSpace(values[1]),
			AccessToken:       strings.TrimSpace(values[2]),
			AccessTokenSecret: strings.TrimSpace(values[3]),
		}
		if err := bundle.validate(); err != nil {
			return Credential{}, err
		}
		return OAuth1Credential(bundle), nil
	}

	return ParseCredential(shape, values[0])
}

// Encode returns the raw secret-store representation.
func (c Credential) Encode() (string, error) {
	switch c.shape {
	case ShapeSimple:
		return c.simple, nil
	case ShapeOAuth1:
		data, err := json.Marshal(c.oauth1)
		if err != nil {
			return "", fmt.Errorf("encode oauth1 bundle: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: empty credential", ErrMalformedCredential)
	}
}
