// Package hotjar provides a client for the private Hotjar insights API.
//
// The client logs in once when it is created and keeps the session cookies
// in a cookie jar, so every later call is authenticated implicitly.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := hotjar.NewClient(ctx, hotjar.Credentials{
//		Email:    "me@example.com",
//		Password: "secret",
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Up to 250 responses created since January 2019
//	records, err := client.GetFeedbacks(ctx, siteID, widgetID,
//		hotjar.CreatedSince(time.Date(2019, 1, 21, 0, 0, 0, 0, time.UTC)), 250)
//
// # Pagination
//
// GetFeedbacks first asks the API how many responses match the filter and
// then requests ceil(min(limit, count) / 100) pages sequentially. It does
// not stop early on a short page.
//
// # Error Handling
//
//   - ErrInvalidCredentials: empty email or password
//   - AuthorizationError: login rejected; errors.Is(err, ErrUnauthorized) holds
//   - APIError: any other endpoint answered with a non-2xx status
//   - ErrInvalidResponse: a paged response lacked count or data
//
// Nothing is retried.
package hotjar
