package models

import "time"

// ExportItem is one line of an aggregate report export.
type ExportItem struct {
	HeaderFrom    string    `json:"headerFrom"`
	SourceIP      string    `json:"sourceIp"`
	PTR           string    `json:"ptr"`
	Count         int       `json:"count"`
	SPF           string    `json:"spf"`
	DKIM          string    `json:"dkim"`
	Disposition   string    `json:"disposition"`
	OrgName       string    `json:"orgName"`
	EffectiveDate time.Time `json:"effectiveDate"`
}

type ReverseDNSInfoRequest struct {
	IPAddresses []string  `json:"ipAddresses"`
	Date        time.Time `json:"date"`
}

type ReverseDNSInfoResponse struct {
	IPAddress            string   `json:"ipAddress"`
	DNSResponses         []string `json:"dnsResponses"`
	ForwardLookupMatches []string `json:"forwardLookupMatches"`
}

type APIEnrichExportRequest struct {
	Date  time.Time    `json:"date"`
	Items []ExportItem `json:"items"`
}
