//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ContentKind is the platform's message type
// ENUM(chat,audio,ptt,image,video,document,sticker,location,reaction,list_response,buttons_response,vcard,poll_creation,revoked,gp2,e2e_notification,notification_template,call_log,ciphertext,unknown)
type ContentKind string

// JoinSubtype is the subtype of a group membership notification
// ENUM(add,invite,linked_group_join,leave,remove,promote,demote,create)
type JoinSubtype string
