package ioanalyze

import (
	"errors"

	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/gnames/gn"
)

// Suggestions turns spreadsheet failures into steps an operator can take.
// It returns nil for errors that have no known remedy.
func Suggestions(err error, clientEmail string) []string {
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return nil
	}

	share := "Share the spreadsheet with the service account email as Editor"
	if clientEmail != "" {
		share = "Share the spreadsheet with " + clientEmail + " as Editor"
	}

	switch gnErr.Code {
	case errcode.SheetsNotConfiguredError:
		return []string{
			"Set GOOGLE_SPREADSHEET_ID, GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY",
			"Put them into .env.local and restart festsync",
			share,
		}
	case errcode.SheetsCredentialsError:
		return []string{
			"Copy GOOGLE_PRIVATE_KEY again from the service account JSON key",
			"Keep the \\n sequences and the surrounding quotes",
		}
	case errcode.SheetNotFoundError:
		return []string{
			"Verify GOOGLE_SPREADSHEET_ID, it is the part of the URL between /d/ and /edit",
			share,
		}
	case errcode.SheetPermissionError:
		return []string{
			share,
			"Enable the Google Sheets API in the Google Cloud project",
		}
	case errcode.SheetQuotaError:
		return []string{
			"Wait a minute before trying again",
			"Use the quota-safe import, it never writes to the spreadsheet",
		}
	default:
		return nil
	}
}
