package utils

import (
	"encoding/json"
	"fmt"

	"flightlink/shared/constants"
)

func StructToMap(data any) map[string]any {
	var result map[string]any
	b, _ := json.Marshal(data)
	_ = json.Unmarshal(b, &result)
	return result
}

func MapToStruct[T any](values map[string]any) (T, error) {
	var out T
	b, err := json.Marshal(values)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}

func ExportStatusStream(searchID string) string {
	return fmt.Sprintf("%s:%s", constants.FlightExportStatus, searchID)
}
