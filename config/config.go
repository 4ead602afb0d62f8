package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
// Gồm thông tin server, cơ sở dữ liệu và các tham số của pipeline sinh infographic
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Địa chỉ server
	JwtSecret             string `env:"JWT_SECRET"`                                // Bí mật JWT (rỗng = tắt xác thực)
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Gemini Configuration
	GeminiAPIKey string `env:"GEMINI_API_KEY,required"`                    // API key của Google AI Studio
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"` // Model dùng để sinh nội dung

	// Pipeline Configuration
	PipelineOutputRoot            string `env:"PIPELINE_OUTPUT_ROOT" envDefault:"generated"`       // Thư mục gốc chứa các batch
	PipelineBatchPrefix           string `env:"PIPELINE_BATCH_PREFIX" envDefault:"api_batch"`      // Prefix tên thư mục batch
	PipelineDefaultVariants       int    `env:"PIPELINE_DEFAULT_VARIANTS" envDefault:"3"`          // Số biến thể mặc định mỗi batch
	PipelineMaxVariants           int    `env:"PIPELINE_MAX_VARIANTS" envDefault:"5"`              // Số biến thể tối đa cho một request
	PipelineStaggerSeconds        int    `env:"PIPELINE_STAGGER_SECONDS" envDefault:"3"`           // Giãn cách khởi động giữa các slot trích xuất
	PipelineAttemptTimeoutSeconds int    `env:"PIPELINE_ATTEMPT_TIMEOUT_SECONDS" envDefault:"120"` // Deadline cứng cho một lần trích xuất
	PipelineBatchTimeoutSeconds   int    `env:"PIPELINE_BATCH_TIMEOUT_SECONDS" envDefault:"0"`     // Deadline toàn batch (0 = không giới hạn)
	PipelineIsolation             string `env:"PIPELINE_ISOLATION" envDefault:"subprocess"`        // Chiến lược cách ly: subprocess | inprocess
	PipelineExtractorBin          string `env:"PIPELINE_EXTRACTOR_BIN"`                            // Đường dẫn binary extractor (rỗng = tìm cạnh binary server)

	// Readiness gates của extraction worker (giây trừ khi ghi chú khác)
	PipelineLoadTimeoutSeconds    int `env:"PIPELINE_LOAD_TIMEOUT_SECONDS" envDefault:"30"`   // Chờ tài liệu load xong
	PipelineRuntimeSettleSeconds  int `env:"PIPELINE_RUNTIME_SETTLE_SECONDS" envDefault:"3"`  // Chờ ổn định trước lần kiểm tra d3 thứ nhất
	PipelineRuntimeRetrySeconds   int `env:"PIPELINE_RUNTIME_RETRY_SECONDS" envDefault:"5"`   // Chờ thêm trước lần kiểm tra d3 thứ hai
	PipelineOutputTimeoutSeconds  int `env:"PIPELINE_OUTPUT_TIMEOUT_SECONDS" envDefault:"15"` // Chờ phần tử svg xuất hiện
	PipelineOutputPollMillis      int `env:"PIPELINE_OUTPUT_POLL_MILLIS" envDefault:"500"`    // Chu kỳ poll phần tử svg
	PipelineValidateSettleSeconds int `env:"PIPELINE_VALIDATE_SETTLE_SECONDS" envDefault:"2"` // Chờ ổn định trước khi đếm children
	PipelineMinChildren           int `env:"PIPELINE_MIN_CHILDREN" envDefault:"5"`            // Ngưỡng số children tối thiểu của svg
	PipelineViewportWidth         int `env:"PIPELINE_VIEWPORT_WIDTH" envDefault:"1200"`       // Viewport trình duyệt headless
	PipelineViewportHeight        int `env:"PIPELINE_VIEWPORT_HEIGHT" envDefault:"800"`       // Viewport trình duyệt headless

	// Retention Configuration
	BatchRetentionDays          int `env:"BATCH_RETENTION_DAYS" envDefault:"7"`            // Số ngày giữ thư mục batch và lịch sử (0 = giữ vĩnh viễn)
	BatchCleanupIntervalMinutes int `env:"BATCH_CLEANUP_INTERVAL_MINUTES" envDefault:"60"` // Chu kỳ chạy worker dọn dẹp

	// SMTP Notification Configuration (optional - rỗng = tắt thông báo)
	SMTPHost     string `env:"SMTP_HOST"`                  // SMTP server host
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"` // SMTP server port
	SMTPUser     string `env:"SMTP_USER"`                  // Tài khoản SMTP
	SMTPPassword string `env:"SMTP_PASSWORD"`              // Mật khẩu SMTP
	SMTPFrom     string `env:"SMTP_FROM"`                  // Địa chỉ gửi
	SMTPNotifyTo string `env:"SMTP_NOTIFY_TO"`             // Danh sách địa chỉ nhận, phân cách bằng dấu phẩy

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Tìm thư mục config
	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			// Tìm thấy thư mục config/env
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
