package tx

import "fmt"

// Result represents a transaction result code
type Result int

// Transaction result codes, organized by category: tes, tec, tef, tem, ter.
// Only tesSUCCESS changes the ledger; every other code leaves state untouched.
const (
	// tesSUCCESS
	TesSUCCESS Result = 0

	// tec (100-199): well-formed and authorized, but the ledger state forbids it
	TecNO_DST                    Result = 124
	TecNO_PERMISSION             Result = 139
	TecNO_ENTRY                  Result = 140
	TecINTERNAL                  Result = 144
	TecINVARIANT_FAILED          Result = 147
	TecDUPLICATE                 Result = 149
	TecINSUFFICIENT_FUNDS        Result = 159
	TecREGISTRATION_CLOSED       Result = 174
	TecEVENT_FULL                Result = 175
	TecALREADY_SCANNED           Result = 176
	TecALREADY_CLAIMED           Result = 177
	TecATTENDEE_PENDING          Result = 178
	TecINVALID_STATUS_TRANSITION Result = 179
	TecEVENT_CANCELLED           Result = 180
	TecINVALID_EVENT_START       Result = 181
	TecMINT_MISMATCH             Result = 182
	TecINVALID_WINDOW            Result = 183

	// tef (-199 to -100): authorization or internal failure
	TefFAILURE             Result = -199
	TefBAD_AUTH            Result = -196
	TefINTERNAL            Result = -192
	TefPAST_SEQ            Result = -190
	TefBAD_SIGNATURE       Result = -186
	TefNOT_AUTHORITY       Result = -178
	TefMISSING_COSIGNATURE Result = -177
	TefINVALID_CLAIMER     Result = -176

	// tem (-299 to -200): malformed transaction
	TemMALFORMED            Result = -299
	TemBAD_AMOUNT           Result = -298
	TemBAD_SEQUENCE         Result = -283
	TemBAD_SIGNATURE        Result = -282
	TemBAD_SRC_ACCOUNT      Result = -281
	TemDST_IS_SRC           Result = -279
	TemDST_NEEDED           Result = -278
	TemINVALID              Result = -277
	TemUNKNOWN              Result = -264
	TemINVALID_CAPACITY     Result = -240
	TemNO_AUTHORITIES       Result = -239
	TemTOO_MANY_AUTHORITIES Result = -238
	TemMISSING_ACCOUNT      Result = -237

	// ter (-99 to -1): may succeed later
	TerNO_ACCOUNT Result = -96
	TerPRE_SEQ    Result = -92
)

var resultNames = map[Result]string{
	TesSUCCESS: "tesSUCCESS",

	TecNO_DST:                    "tecNO_DST",
	TecNO_PERMISSION:             "tecNO_PERMISSION",
	TecNO_ENTRY:                  "tecNO_ENTRY",
	TecINTERNAL:                  "tecINTERNAL",
	TecINVARIANT_FAILED:          "tecINVARIANT_FAILED",
	TecDUPLICATE:                 "tecDUPLICATE",
	TecINSUFFICIENT_FUNDS:        "tecINSUFFICIENT_FUNDS",
	TecREGISTRATION_CLOSED:       "tecREGISTRATION_CLOSED",
	TecEVENT_FULL:                "tecEVENT_FULL",
	TecALREADY_SCANNED:           "tecALREADY_SCANNED",
	TecALREADY_CLAIMED:           "tecALREADY_CLAIMED",
	TecATTENDEE_PENDING:          "tecATTENDEE_PENDING",
	TecINVALID_STATUS_TRANSITION: "tecINVALID_STATUS_TRANSITION",
	TecEVENT_CANCELLED:           "tecEVENT_CANCELLED",
	TecINVALID_EVENT_START:       "tecINVALID_EVENT_START",
	TecMINT_MISMATCH:             "tecMINT_MISMATCH",
	TecINVALID_WINDOW:            "tecINVALID_WINDOW",

	TefFAILURE:             "tefFAILURE",
	TefBAD_AUTH:            "tefBAD_AUTH",
	TefINTERNAL:            "tefINTERNAL",
	TefPAST_SEQ:            "tefPAST_SEQ",
	TefBAD_SIGNATURE:       "tefBAD_SIGNATURE",
	TefNOT_AUTHORITY:       "tefNOT_AUTHORITY",
	TefMISSING_COSIGNATURE: "tefMISSING_COSIGNATURE",
	TefINVALID_CLAIMER:     "tefINVALID_CLAIMER",

	TemMALFORMED:            "temMALFORMED",
	TemBAD_AMOUNT:           "temBAD_AMOUNT",
	TemBAD_SEQUENCE:         "temBAD_SEQUENCE",
	TemBAD_SIGNATURE:        "temBAD_SIGNATURE",
	TemBAD_SRC_ACCOUNT:      "temBAD_SRC_ACCOUNT",
	TemDST_IS_SRC:           "temDST_IS_SRC",
	TemDST_NEEDED:           "temDST_NEEDED",
	TemINVALID:              "temINVALID",
	TemUNKNOWN:              "temUNKNOWN",
	TemINVALID_CAPACITY:     "temINVALID_CAPACITY",
	TemNO_AUTHORITIES:       "temNO_AUTHORITIES",
	TemTOO_MANY_AUTHORITIES: "temTOO_MANY_AUTHORITIES",
	TemMISSING_ACCOUNT:      "temMISSING_ACCOUNT",

	TerNO_ACCOUNT: "terNO_ACCOUNT",
	TerPRE_SEQ:    "terPRE_SEQ",
}

var resultsByName = func() map[string]Result {
	m := make(map[string]Result, len(resultNames))
	for r, name := range resultNames {
		m[name] = r
	}
	return m
}()

// String returns the stable token for the result code
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(r))
}

// ResultFromName is the inverse of String.
func ResultFromName(name string) (Result, bool) {
	r, ok := resultsByName[name]
	return r, ok
}

// IsSuccess returns true if the result indicates success
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec (claimed cost) code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsTer returns true if this is a ter (retry) code
func (r Result) IsTer() bool {
	return r >= -99 && r <= -1
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The transaction was applied."
	case TecNO_DST:
		return "Destination account does not exist."
	case TecNO_PERMISSION:
		return "No permission to perform requested operation."
	case TecNO_ENTRY:
		return "No matching entry found."
	case TecINTERNAL:
		return "An internal error has occurred during processing."
	case TecINVARIANT_FAILED:
		return "One or more invariants for the transaction were not satisfied."
	case TecDUPLICATE:
		return "Account already exists."
	case TecINSUFFICIENT_FUNDS:
		return "Not enough funds available to complete requested transaction."
	case TecREGISTRATION_CLOSED:
		return "Registration window is closed."
	case TecEVENT_FULL:
		return "Event has reached capacity."
	case TecALREADY_SCANNED:
		return "Credential has already been scanned."
	case TecALREADY_CLAIMED:
		return "Attendee has already claimed."
	case TecATTENDEE_PENDING:
		return "Attendee status is still pending."
	case TecINVALID_STATUS_TRANSITION:
		return "Attendee status does not allow this transition."
	case TecEVENT_CANCELLED:
		return "Event has been cancelled."
	case TecINVALID_EVENT_START:
		return "Event must start in the future."
	case TecMINT_MISMATCH:
		return "Reward mint does not match the event."
	case TecINVALID_WINDOW:
		return "Registration and event windows are inconsistent."
	case TefBAD_AUTH:
		return "Signing key does not control the account."
	case TefINTERNAL:
		return "Internal error."
	case TefPAST_SEQ:
		return "Sequence number has already passed."
	case TefBAD_SIGNATURE:
		return "Invalid signature."
	case TefNOT_AUTHORITY:
		return "Signer is not an authority for this event."
	case TefMISSING_COSIGNATURE:
		return "An event authority must co-sign."
	case TefINVALID_CLAIMER:
		return "Signer may not claim for this attendee."
	case TemMALFORMED:
		return "Malformed transaction."
	case TemBAD_AMOUNT:
		return "Can only send positive amounts."
	case TemBAD_SEQUENCE:
		return "Sequence number must be non-zero."
	case TemBAD_SIGNATURE:
		return "Transaction is not signed."
	case TemBAD_SRC_ACCOUNT:
		return "Source account is malformed."
	case TemDST_IS_SRC:
		return "Destination may not be source."
	case TemDST_NEEDED:
		return "Destination is required."
	case TemINVALID:
		return "The transaction is ill-formed."
	case TemUNKNOWN:
		return "Unknown transaction type."
	case TemINVALID_CAPACITY:
		return "Event capacity must be positive."
	case TemNO_AUTHORITIES:
		return "Co-signed events need at least one authority."
	case TemTOO_MANY_AUTHORITIES:
		return "Too many event authorities."
	case TemMISSING_ACCOUNT:
		return "A required account was not provided."
	case TerNO_ACCOUNT:
		return "The source account does not exist."
	case TerPRE_SEQ:
		return "Missing/inapplicable prior transaction."
	default:
		return r.String()
	}
}

// ResultError carries a non-success Result through error-returning APIs.
type ResultError struct {
	Result  Result
	Message string
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Result, e.Message)
}

// Code is the stable numeric code.
func (e *ResultError) Code() int {
	return int(e.Result)
}

// NewResultError returns nil for tesSUCCESS.
func NewResultError(r Result, msg string) error {
	if r.IsSuccess() {
		return nil
	}
	if msg == "" {
		msg = r.Message()
	}
	return &ResultError{Result: r, Message: msg}
}
