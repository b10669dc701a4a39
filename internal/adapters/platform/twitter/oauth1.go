package twitter

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"

	"github.com/bnema/crosspost/internal/domain"
)

// percentEncode applies RFC 3986 encoding as OAuth 1.0a requires.
func percentEncode(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	e = strings.ReplaceAll(e, "*", "%2A")
	e = strings.ReplaceAll(e, "%7E", "~")
	return e
}

// authorizationHeader signs a request with HMAC-SHA1. JSON bodies are not
// part of the signature base string, only query and oauth parameters are.
func authorizationHeader(method, rawURL string, creds domain.OAuth1, nonce, timestamp string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	oauthParams := map[string]string{
		"oauth_consumer_key":     creds.ConsumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        timestamp,
		"oauth_token":            creds.AccessToken,
		"oauth_version":          "1.0",
	}

	type pair struct{ k, v string }
	pairs := make([]pair, 0, len(oauthParams))
	for k, v := range oauthParams {
		pairs = append(pairs, pair{percentEncode(k), percentEncode(v)})
	}
	for k, values := range parsed.Query() {
		for _, v := range values {
			pairs = append(pairs, pair{percentEncode(k), percentEncode(v)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].k == pairs[j].k {
			return pairs[i].v < pairs[j].v
		}
		return pairs[i].k < pairs[j].k
	})

	encoded := make([]string, 0, len(pairs))
	for _, p := range pairs {
		encoded = append(encoded, p.k+"="+p.v)
	}

	baseURL := *parsed
	baseURL.RawQuery = ""
	baseURL.Fragment = ""
	base := strings.ToUpper(method) + "&" + percentEncode(baseURL.String()) + "&" + percentEncode(strings.Join(encoded, "&"))
	key := percentEncode(creds.ConsumerSecret) + "&" + percentEncode(creds.AccessTokenSecret)

	mac := hmac.New(sha1.New, []byte(key))
	_, _ = mac.Write([]byte(base))
	oauthParams["oauth_signature"] = base64.StdEncoding.EncodeToString(mac.Sum(nil))

	keys := make([]string, 0, len(oauthParams))
	for k := range oauthParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, percentEncode(k)+`="`+percentEncode(oauthParams[k])+`"`)
	}
	return "OAuth " + strings.Join(out, ", "), nil
}
