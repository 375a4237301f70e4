// Package services implements the HTTP clients for the two JSON APIs the front-end consumes.
//
// # Reading-log backend
//
// [Client] implements [API]: parent registration and login, child PIN login, child management
// and reading-log endpoints. All requests go to one configured base URL.
//
// Authenticated calls attach the role's bearer token through an [oauth2.Transport] backed by a
// static token source. An empty token fails fast with [shared.ErrNotAuthenticated] and sends nothing.
//
// # Open Library
//
// [OpenLibrary] implements [Catalog] against search.json and the covers service. Searches return at
// most [MaxSearchResults] hits. Requests share a [rate.Limiter].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : required token missing
//   - [shared.ErrInvalidCredentials] : login rejected by the backend
//   - [shared.ErrAPIRequest] : non-2xx response, carried by [APIError] with the status code
//   - [shared.ErrServiceUnavailable] : the backend could not be reached
//   - [shared.ErrCatalogUnavailable] : any catalog failure
//   - [shared.ErrInvalidInput] : blank search query, via models.ValidationError
package services
