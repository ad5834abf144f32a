package eventbus

// Kind names one event on the bus. The set below is the whole vocabulary:
// gateways and reconcilers refer to these constants, never to ad-hoc strings,
// so a typo fails to compile instead of creating a dead event.
//
// Primary events carry an *api.Envelope. Secondary events (LOGIN, LOGOUT,
// FRIEND:STATE, UPDATE:PROGRESS) carry the typed payloads declared next to
// their emitters.
type Kind string

const (
	// Remote config.
	Config Kind = "CONFIG"

	// Current user and session lifecycle.
	UserCurrent Kind = "USER:CURRENT"
	Login       Kind = "LOGIN"
	Logout      Kind = "LOGOUT"

	// Ordinary users.
	User Kind = "USER"

	// Avatars.
	Avatar       Kind = "AVATAR"
	AvatarList   Kind = "AVATAR:LIST"
	AvatarSave   Kind = "AVATAR:SAVE"
	AvatarDelete Kind = "AVATAR:DELETE"

	// Worlds.
	World     Kind = "WORLD"
	WorldList Kind = "WORLD:LIST"

	// Notifications.
	Notification       Kind = "NOTIFICATION"
	NotificationList   Kind = "NOTIFICATION:LIST"
	NotificationAccept Kind = "NOTIFICATION:ACCEPT"
	NotificationHide   Kind = "NOTIFICATION:HIDE"

	// Friends.
	FriendList   Kind = "FRIEND:LIST"
	FriendStatus Kind = "FRIEND:STATUS"
	FriendDelete Kind = "FRIEND:DELETE"
	FriendState  Kind = "FRIEND:STATE"

	// Groups.
	Group     Kind = "GROUP"
	GroupList Kind = "GROUP:LIST"

	// Favorites.
	Favorite       Kind = "FAVORITE"
	FavoriteList   Kind = "FAVORITE:LIST"
	FavoriteDelete Kind = "FAVORITE:DELETE"

	// Files.
	FileUpload Kind = "FILE:UPLOAD"

	// Live pipeline frames, translated 1:1 from the push socket.
	PipelineFriendOnline   Kind = "PIPELINE:FRIEND:ONLINE"
	PipelineFriendOffline  Kind = "PIPELINE:FRIEND:OFFLINE"
	PipelineFriendLocation Kind = "PIPELINE:FRIEND:LOCATION"
	PipelineFriendUpdate   Kind = "PIPELINE:FRIEND:UPDATE"
	PipelineNotification   Kind = "PIPELINE:NOTIFICATION"

	// Updater state machine.
	UpdateProgress Kind = "UPDATE:PROGRESS"
)
