package global

var (
	ToolName         = "DRGSaveBackup"
	DefaultLogLevel  = "Info"
	DefaultConfigINI = "config.ini"
	DefaultBackupDir = "backups"
	Version          = "dev"
)

// Game specific path fragments. These must match the on-disk names exactly.
const (
	GameFolder            = "Deep Rock Galactic"
	WinStorePackagePrefix = "CoffeeStainStudios.DeepRockGalactic_"
	SteamSaveExtension    = ".sav"
)
