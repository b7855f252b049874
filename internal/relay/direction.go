package relay

// Mode selects what a successful response carries.
type Mode int

const (
	// ModeDownload expects a binary blob that becomes a download link.
	ModeDownload Mode = iota
	// ModeValidate expects a JSON body with a "message" field.
	ModeValidate
)

// Direction is the configuration record for one relay entry point.
type Direction struct {
	Key             string
	Title           string
	Endpoint        string
	Mode            Mode
	Body            BodyBuilder
	MissingMessage  string
	FailurePrefix   string
	SuccessFilename string
	SuccessLabel    string
	// AllowedTypes lists the file extensions offered by file pickers.
	AllowedTypes []string
}

var (
	ExcelToJSON = Direction{
		Key:             "excel-to-json",
		Title:           "Excel → JSON",
		Endpoint:        "/excel-to-json",
		Mode:            ModeDownload,
		Body:            MultipartBody,
		MissingMessage:  "Please select an Excel file first.",
		FailurePrefix:   "Failed to convert Excel to JSON",
		SuccessFilename: "data.json",
		SuccessLabel:    "Download JSON",
		AllowedTypes:    []string{".xlsx", ".xls"},
	}

	JSONToExcel = Direction{
		Key:             "json-to-excel",
		Title:           "JSON → Excel",
		Endpoint:        "/json-to-excel",
		Mode:            ModeDownload,
		Body:            JSONBody,
		MissingMessage:  "Please select a JSON file first.",
		FailurePrefix:   "Failed to convert JSON to Excel",
		SuccessFilename: "data.xlsx",
		SuccessLabel:    "Download Excel",
		AllowedTypes:    []string{".json"},
	}

	ValidateExcel = Direction{
		Key:            "validate-excel",
		Title:          "Validate Excel",
		Endpoint:       "/validate-excel",
		Mode:           ModeValidate,
		Body:           MultipartBody,
		MissingMessage: "Please select an Excel file first.",
		FailurePrefix:  "Failed to validate Excel",
		AllowedTypes:   []string{".xlsx", ".xls"},
	}

	ValidateJSON = Direction{
		Key:            "validate-json",
		Title:          "Validate JSON",
		Endpoint:       "/validate-json",
		Mode:           ModeValidate,
		Body:           JSONBody,
		MissingMessage: "Please select a JSON file first.",
		FailurePrefix:  "Failed to validate JSON",
		AllowedTypes:   []string{".json"},
	}
)

// Directions lists every entry point in menu order.
func Directions() []Direction {
	return []Direction{ExcelToJSON, JSONToExcel, ValidateExcel, ValidateJSON}
}
