//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=maps_test
package maps

import "net/http"

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type limiter interface {
	Allow() bool
}
