package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeVideo = "video/"
	MimeImage = "image/"
	MimePDF   = "application/pdf"
	MimeAudio = "audio/"
)

// 课程内容素材允许的类型
var AllowedAssetTypes = []string{MimeVideo, MimeImage, MimeAudio, MimePDF}

// MaxAssetSize 单个素材文件上限 200MB
const MaxAssetSize = 200 << 20
