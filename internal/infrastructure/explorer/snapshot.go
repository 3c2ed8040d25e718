package explorer

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/halcyonwallet/custodyd/internal/core/domain"
)

// CurrentAccountLinks returns the external systems the account is linked to
// according to the last fetched snapshot.
func (e *explorerService) CurrentAccountLinks() map[domain.SystemType]struct{} {
	e.linksMtx.RLock()
	defer e.linksMtx.RUnlock()

	links := make(map[domain.SystemType]struct{}, len(e.links))
	for systemType := range e.links {
		links[systemType] = struct{}{}
	}
	return links
}

// Refresh re-fetches the account's external system links from the network.
func (e *explorerService) Refresh() error {
	url := fmt.Sprintf("%s/account/%s/links", e.apiURL, e.account)
	status, resp, err := e.newHTTPRequest("GET", url, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf(resp)
	}

	var linkList []string
	if err := json.Unmarshal([]byte(resp), &linkList); err != nil {
		return err
	}

	links := make(map[domain.SystemType]struct{}, len(linkList))
	for _, link := range linkList {
		links[domain.SystemType(link)] = struct{}{}
	}

	e.linksMtx.Lock()
	e.links = links
	e.linksMtx.Unlock()

	return nil
}
