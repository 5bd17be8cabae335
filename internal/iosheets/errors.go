package iosheets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConfiguredError means the spreadsheet id or the service account
// settings are missing. missing holds setting names only.
func NotConfiguredError(missing []string) error {
	msg := `Google Sheets is not configured

<em>Missing settings:</em>
  %s

<em>How to fix:</em>
  1. Create a service account in Google Cloud Console
     and download its JSON key
  2. Put the values into <em>.env.local</em> or the environment:
     GOOGLE_SPREADSHEET_ID, GOOGLE_CLIENT_EMAIL, GOOGLE_PRIVATE_KEY
  3. Share the spreadsheet with the service account email as Editor`

	list := strings.Join(missing, ", ")
	return &gn.Error{
		Code: errcode.SheetsNotConfiguredError,
		Msg:  msg,
		Vars: []any{list},
		Err:  fmt.Errorf("google sheets not configured, missing: %s", list),
	}
}

// CredentialsError means the service account settings are present but
// unusable. Key material is never included.
func CredentialsError(clientEmail string, err error) error {
	msg := `Cannot use Google service account <em>%s</em>

<em>Possible causes:</em>
  - GOOGLE_PRIVATE_KEY was truncated or lost its line breaks
  - The key belongs to a different service account

<em>How to fix:</em>
  1. Copy the "private_key" value from the JSON key file again
  2. Keep the surrounding quotes when storing it in .env files`

	return &gn.Error{
		Code: errcode.SheetsCredentialsError,
		Msg:  msg,
		Vars: []any{clientEmail},
		Err:  fmt.Errorf("bad service account credentials: %w", cause(err)),
	}
}

// NotFoundError means the spreadsheet or sheet does not exist or is not
// visible to the service account.
func NotFoundError(target, clientEmail string, err error) error {
	msg := `Spreadsheet <em>%s</em> was not found

<em>How to fix:</em>
  1. Verify GOOGLE_SPREADSHEET_ID: it is the part of the URL
     between /d/ and /edit
  2. Share the spreadsheet with <em>%s</em> as Editor`

	return &gn.Error{
		Code: errcode.SheetNotFoundError,
		Msg:  msg,
		Vars: []any{target, emailOrPlaceholder(clientEmail)},
		Err:  fmt.Errorf("spreadsheet %s not found: %w", target, cause(err)),
	}
}

// PermissionError means the service account may not access the
// spreadsheet.
func PermissionError(target, clientEmail string, err error) error {
	msg := `Access to spreadsheet <em>%s</em> was denied

<em>How to fix:</em>
  1. Open the spreadsheet and click "Share"
  2. Add <em>%s</em> with Editor rights
  3. Make sure the Google Sheets API is enabled for the project`

	return &gn.Error{
		Code: errcode.SheetPermissionError,
		Msg:  msg,
		Vars: []any{target, emailOrPlaceholder(clientEmail)},
		Err:  fmt.Errorf("permission denied for %s: %w", target, cause(err)),
	}
}

// QuotaError means Google rejected the call because of rate limits.
func QuotaError(op string, err error) error {
	msg := `Google Sheets quota exceeded during <em>%s</em>

<em>How to fix:</em>
  1. Wait a minute and run the operation again
  2. Prefer <em>festsync import</em>, it never writes to the spreadsheet`

	return &gn.Error{
		Code: errcode.SheetQuotaError,
		Msg:  msg,
		Vars: []any{op},
		Err:  fmt.Errorf("quota exceeded in %s: %w", op, cause(err)),
	}
}

// RequestError is any other failed spreadsheet call.
func RequestError(op, target string, err error) error {
	msg := "Spreadsheet call <em>%s</em> failed for <em>%s</em>"

	return &gn.Error{
		Code: errcode.SheetRequestError,
		Msg:  msg,
		Vars: []any{op, target},
		Err:  fmt.Errorf("%s on %s: %w", op, target, cause(err)),
	}
}

func emailOrPlaceholder(email string) string {
	if email == "" {
		return "the service account email"
	}
	return email
}

func cause(err error) error {
	if err == nil {
		return errors.New("no details")
	}
	return err
}
