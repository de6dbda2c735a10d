package bwire_test

import (
	"context"
	"strings"
	"testing"

	"github.com/advdv/bwire"
	"github.com/advdv/bwire/internal/pathtmpl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(name string) bwire.Handler {
	return bwire.HandlerFunc(func(context.Context, *bwire.Request) (*bwire.Response, error) {
		return bwire.OK().SetBodyString(name), nil
	})
}

func resolveName(t *testing.T, tbl *bwire.RouteTable, method, path string) string {
	t.Helper()
	h, ok := tbl.Resolve(method, path)
	if !ok {
		return ""
	}

	res, err := h.ServeWire(t.Context(), nil)
	require.NoError(t, err)
	return string(res.Body)
}

func TestRouteTable(t *testing.T) {
	tbl := bwire.NewRouteTable()
	require.NoError(t, tbl.Insert(bwire.MethodGet, "/", named("root")))
	require.NoError(t, tbl.Insert(bwire.MethodGet, "/hey/{a}/hey", named("hey")))
	require.NoError(t, tbl.Insert(bwire.MethodGet, "/cars/{id}", named("car")))
	require.NoError(t, tbl.Insert(bwire.MethodGet, "/cars/new", named("shadowed")))
	require.NoError(t, tbl.Insert(bwire.MethodPost, "/cars", named("create")))
	require.NoError(t, tbl.Insert(bwire.MethodGet, "/files/{path...}", named("files")))

	for _, tt := range []struct {
		method, path, want string
	}{
		{"GET", "/", "root"},
		{"GET", "/hey/42/hey", "hey"},
		{"GET", "/hey/abc-def/hey", "hey"},
		{"GET", "/hey//hey", ""},
		{"GET", "/hey/1/2/hey", ""},
		{"GET", "/hey/42/hey/", ""},
		{"GET", "/cars/new", "car"},
		{"POST", "/cars", "create"},
		{"POST", "/cars/1", ""},
		{"PUT", "/cars", ""},
		{"GET", "/files/a/b/c.txt", "files"},
		{"GET", "/files/", ""},
		{"PATCH", "/", ""},
	} {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveName(t, tbl, tt.method, tt.path))
		})
	}

	routes := tbl.Routes()
	require.Len(t, routes, 6)
	assert.Equal(t, "/", routes[0].Template)
	assert.Equal(t, bwire.MethodPost, routes[5].Method)
}

func TestRouteTableInsertErrors(t *testing.T) {
	tbl := bwire.NewRouteTable()

	err := tbl.Insert(bwire.MethodGet, "/a/{b", named("x"))
	require.ErrorIs(t, err, pathtmpl.ErrMismatchedBraces)

	err = tbl.Insert(bwire.MethodGet, "/a/}b{", named("x"))
	require.ErrorIs(t, err, pathtmpl.ErrMismatchedBraces)

	err = tbl.Insert(bwire.MethodGet, "/a/{{b}}", named("x"))
	require.ErrorIs(t, err, pathtmpl.ErrMismatchedBraces)

	err = tbl.Insert(bwire.MethodGet, "", named("x"))
	require.ErrorIs(t, err, pathtmpl.ErrEmptyTemplate)

	err = tbl.Insert("PATCH", "/a", named("x"))
	require.ErrorIs(t, err, bwire.ErrUnknownMethod)

	assert.Empty(t, tbl.Routes())
}

func TestPlaceholderSubstitution(t *testing.T) {
	for _, tmpl := range []string{"/hey/{a}/hey", "/{a}", "/x/{a}/y/{b}", "/{a}-{b}.txt"} {
		parsed, err := pathtmpl.Parse(tmpl)
		require.NoError(t, err)

		tbl := bwire.NewRouteTable()
		require.NoError(t, tbl.Insert(bwire.MethodGet, tmpl, named("hit")))

		for _, val := range []string{"1", "abc", "x.y", "with space", "UPPER_case-9"} {
			vals := make([]string, len(parsed.Names()))
			for i := range vals {
				vals[i] = val
			}

			path, err := pathtmpl.Build(parsed, vals...)
			require.NoError(t, err)
			assert.Equal(t, "hit", resolveName(t, tbl, "GET", path), "%s with %q", tmpl, val)

			longer, err := pathtmpl.Build(parsed, append([]string{val + "/extra"}, vals[1:]...)...)
			require.NoError(t, err)
			assert.Empty(t, resolveName(t, tbl, "GET", longer), "%s must not match %q", tmpl, longer)
		}
	}
}

func TestParseMethod(t *testing.T) {
	m, err := bwire.ParseMethod("DELETE")
	require.NoError(t, err)
	assert.Equal(t, bwire.MethodDelete, m)

	_, err = bwire.ParseMethod("get")
	require.ErrorIs(t, err, bwire.ErrUnknownMethod)
}

func TestTemplateExpr(t *testing.T) {
	tmpl, err := pathtmpl.Parse("/a.b/{id}/{rest...}")
	require.NoError(t, err)
	assert.Equal(t, `^/a\.b/[^/]+/.+$`, tmpl.Expr())
	assert.Equal(t, []string{"id", "rest..."}, tmpl.Names())
	assert.True(t, strings.HasPrefix(tmpl.String(), "/a.b"))

	_, err = pathtmpl.Build(tmpl, "1")
	require.ErrorContains(t, err, "not enough values")
	_, err = pathtmpl.Build(tmpl, "1", "2", "3")
	require.ErrorContains(t, err, "too many values")
	_, err = pathtmpl.Build(tmpl, "1", "")
	require.ErrorContains(t, err, "empty value")
}
