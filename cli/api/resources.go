package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const emptyErrorMessage = "(empty error message)"

// Resource is one read-only endpoint family of the API.
type Resource interface {
	Get(ctx context.Context) (Outcome, error)
}

// Params are the caller-supplied arguments shared by every resource.
// Resources ignore the fields they don't use.
type Params struct {
	CheckMode bool
	Tags      []string
	UUID      string
}

// --- Badges / Channels ---

type BadgesInfo struct {
	rest   Getter
	params Params
}

func NewBadgesInfo(rest Getter, p Params) *BadgesInfo {
	return &BadgesInfo{rest: rest, params: p}
}

func (r *BadgesInfo) Get(ctx context.Context) (Outcome, error) {
	return getInfo(ctx, r.rest, r.params.CheckMode, "badges")
}

type ChannelsInfo struct {
	rest   Getter
	params Params
}

func NewChannelsInfo(rest Getter, p Params) *ChannelsInfo {
	return &ChannelsInfo{rest: rest, params: p}
}

func (r *ChannelsInfo) Get(ctx context.Context) (Outcome, error) {
	return getInfo(ctx, r.rest, r.params.CheckMode, "channels")
}

// --- Check sub-resources ---

type ChecksFlipsInfo struct {
	rest   Getter
	params Params
}

func NewChecksFlipsInfo(rest Getter, p Params) *ChecksFlipsInfo {
	return &ChecksFlipsInfo{rest: rest, params: p}
}

func (r *ChecksFlipsInfo) Get(ctx context.Context) (Outcome, error) {
	return getCheckSubResource(ctx, r.rest, r.params, "flips")
}

type ChecksPingsInfo struct {
	rest   Getter
	params Params
}

func NewChecksPingsInfo(rest Getter, p Params) *ChecksPingsInfo {
	return &ChecksPingsInfo{rest: rest, params: p}
}

func (r *ChecksPingsInfo) Get(ctx context.Context) (Outcome, error) {
	return getCheckSubResource(ctx, r.rest, r.params, "pings")
}

func getCheckSubResource(ctx context.Context, rest Getter, p Params, sub string) (Outcome, error) {
	if p.CheckMode {
		return Success(map[string]any{}), nil
	}
	if p.UUID == "" {
		return Failure("missing required arguments: uuid"), nil
	}
	return getInfo(ctx, rest, false, "checks/"+url.PathEscape(p.UUID)+"/"+sub)
}

// --- Checks ---

// ChecksInfo lists checks, optionally filtered by tags, or fetches a
// single check by uuid.
type ChecksInfo struct {
	rest   Getter
	params Params
}

func NewChecksInfo(rest Getter, p Params) *ChecksInfo {
	return &ChecksInfo{rest: rest, params: p}
}

func (r *ChecksInfo) Get(ctx context.Context) (Outcome, error) {
	if len(r.params.Tags) > 0 && r.params.UUID != "" {
		return Failure("tags and uuid arguments are mutually exclusive and cannot both be provided."), nil
	}
	if r.params.CheckMode {
		return Success(map[string]any{}), nil
	}

	resp, err := r.rest.Get(ctx, ChecksPath(r.params.Tags, r.params.UUID))
	if err != nil {
		return Outcome{}, err
	}
	if !resp.OK() {
		// Unlike the other resources, the path and error detail are left out.
		return Failure(fmt.Sprintf("Failed to get checks [HTTP %d]", resp.StatusCode)), nil
	}
	return Success(resp.JSON), nil
}

// ChecksPath builds the request path for a checks lookup. Tags become one
// repeated tag query parameter each, in the order given.
func ChecksPath(tags []string, uuid string) string {
	switch {
	case uuid != "":
		return "checks/" + url.PathEscape(uuid)
	case len(tags) > 0:
		q := make([]string, 0, len(tags))
		for _, t := range tags {
			q = append(q, "tag="+url.QueryEscape(t))
		}
		return "checks?" + strings.Join(q, "&")
	default:
		return "checks"
	}
}

func getInfo(ctx context.Context, rest Getter, checkMode bool, path string) (Outcome, error) {
	if checkMode {
		return Success(map[string]any{}), nil
	}

	resp, err := rest.Get(ctx, path)
	if err != nil {
		return Outcome{}, err
	}
	if !resp.OK() {
		return Failure(fmt.Sprintf("Failed to get %s [HTTP %d: %s]", path, resp.StatusCode, ErrorDetail(resp))), nil
	}
	return Success(resp.JSON), nil
}

// ErrorDetail pulls a human-readable message out of an error response body.
// healthchecks.io reports errors as {"error": "..."}.
func ErrorDetail(resp *Response) string {
	body, ok := resp.JSON.(map[string]any)
	if !ok {
		return emptyErrorMessage
	}
	for _, key := range []string{"error", "message"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	return emptyErrorMessage
}
