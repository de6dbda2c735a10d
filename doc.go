// Package bwire is a small HTTP/1.x engine that reads requests straight off TCP connections, routes them by method
// and path template, and writes the response back before closing the connection.
//
// # Overview
//
// Each accepted connection carries exactly one request. The server reads until the header block is complete (and,
// when a Content-Length is announced, until the body has arrived), parses it into a [Request], runs the matching
// [Handler] through the middleware chain and resolves the request with the returned [Response].
//
// A minimal example:
//
//	srv := bwire.NewServer()
//	srv.HandleFunc("GET /items/{id}", func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
//	    id, _ := r.DecodedSegment(1)
//	    item, err := db.GetItem(ctx, id)
//	    if err != nil {
//	        return nil, bwire.NewError(bwire.CodeNotFound, err)
//	    }
//	    return bwire.OK().SetContentType("application/json").SetBody(item), nil
//	}, "get-item")
//
//	ln, _ := net.Listen("tcp", ":7878")
//	err := srv.Serve(ctx, ln)
//
// # Route Templates
//
// Templates are literal paths with "{name}" placeholders. A placeholder matches one or more characters within a
// single path segment, a placeholder whose name ends in "..." (such as "{rest...}") may span segments. Templates
// always match the whole decoded path. When several templates match, the one registered first wins. Trailing
// slashes are significant: "/a/" and "/a" are different routes.
//
// Handlers read placeholder values positionally with [Request.Segment] and [Request.DecodedSegment]. Empty segments
// are not counted, so in "/hey/42/hey" the segment at index 1 is "42".
//
// # Handlers and Errors
//
// A handler returns either a response or an error. Errors created with [NewError] keep their [Code]:
//
//	return nil, bwire.NewError(bwire.CodeBadRequest, errors.New("invalid input"))
//
// The response for a client error (4xx) carries the underlying message as its body. Any other error is reported to
// the [Logger] and answered with 500 Internal Server Error.
//
// # Middleware
//
// [Middleware] wraps handlers to add cross-cutting concerns. It is registered with [Server.Use] before any route,
// and also runs for requests that match no route:
//
//	srv.Use(func(next bwire.Handler) bwire.Handler {
//	    return bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
//	        start := time.Now()
//	        res, err := next.ServeWire(ctx, r)
//	        log.Printf("%s %s took %v", r.Method, r.Path, time.Since(start))
//	        return res, err
//	    })
//	})
//
// # Named Routes and Reversing
//
// Routes can be named, and [Server.Reverse] builds their paths with percent-encoded values:
//
//	srv.HandleFunc("GET /users/{id}", getUser, "get-user")
//	p, err := srv.Reverse("get-user", "123") // "/users/123"
//
// # Static Resources
//
// A GET request that matches no route but has a '.' in its path is looked up in [ServerOptions.Static]. The content
// type is taken from the file extension, or sniffed from the content when the extension is unknown.
//
// # Bodies
//
// [Request.JSON] decodes a JSON object body with package jsonval. Anything else is available as raw bytes in
// [Request.Body].
package bwire
