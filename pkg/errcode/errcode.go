package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Configuration errors
	SheetsNotConfiguredError
	SheetsCredentialsError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaMigrateError

	// Store errors
	StoreQueryError
	StoreInsertError
	StoreUpdateError
	StoreDeleteError

	// Spreadsheet errors
	SheetNotFoundError
	SheetPermissionError
	SheetQuotaError
	SheetRequestError
	WorkbookOpenError
	WorkbookSaveError

	// Sync errors
	SyncHeaderError
	SyncInsertError
	SyncUpdateError
	SyncWriteBackError

	// Analyzer errors
	AnalyzeMappingError
	AnalyzeTemplateError
)
