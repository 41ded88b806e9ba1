package reolink

import "encoding/json"

const (
	cmdGetDevName = "GetDevName"
	cmdGetHddInfo = "GetHddInfo"

	opDevName = "device name lookup"
	opHddInfo = "storage info lookup"
)

// StorageInfo is the first disk entry of a GetHddInfo response. Size is the
// free space, in the same MB unit as Capacity.
type StorageInfo struct {
	Capacity float64
	Size     float64
}

// apiResponse is one element of the JSON array every api.cgi call returns.
type apiResponse struct {
	Cmd   string          `json:"cmd"`
	Code  int             `json:"code"`
	Value json.RawMessage `json:"value"`
	Error *apiError       `json:"error,omitempty"`
}

type apiError struct {
	Detail  string `json:"detail"`
	RspCode int    `json:"rspCode"`
}

type devNameValue struct {
	DevName *struct {
		Name *string `json:"name"`
	} `json:"DevName"`
}

type hddInfoValue struct {
	HddInfo []struct {
		Capacity *float64 `json:"capacity"`
		Size     *float64 `json:"size"`
	} `json:"HddInfo"`
}
