package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"meta_infographic_tests/utils"

	"github.com/stretchr/testify/assert"
)

// waitForHealth chờ server sẵn sàng trước khi chạy test.
// Nếu server không chạy sau maxAttempts lần thử, skip toàn bộ suite
// (integration test cần server thật tại localhost:8080).
func waitForHealth(baseURL string, maxAttempts int, delay time.Duration, t *testing.T) {
	client := &http.Client{Timeout: 2 * time.Second}
	for i := 0; i < maxAttempts; i++ {
		resp, err := client.Get(baseURL + "/system/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(delay)
	}
	t.Skipf("⚠️ Server không chạy tại %s, bỏ qua integration test", baseURL)
}

// TestInfographicModule kiểm tra các API của module Infographic:
// CRUD lịch sử batch và validate của endpoint generate.
func TestInfographicModule(t *testing.T) {
	baseURL := "http://localhost:8080/api/v1"
	waitForHealth(baseURL, 10, 1*time.Second, t)

	client := utils.NewHTTPClient(baseURL, 30)

	// Token chỉ cần khi server chạy với JWT_SECRET (sinh bằng scripts/gen_token)
	if token := os.Getenv("API_TEST_TOKEN"); token != "" {
		client.SetToken(token)
		fmt.Printf("✅ Dùng bearer token từ API_TEST_TOKEN\n")
	}

	// ============================================
	// TEST INFOGRAPHIC BATCHES (LỊCH SỬ)
	// ============================================
	t.Run("🖼️ InfographicBatches CRUD Operations", func(t *testing.T) {
		var batchID string
		topic := fmt.Sprintf("Integration test %d", time.Now().UnixNano())

		// CREATE: Tạo batch record
		t.Run("CREATE - Tạo batch record", func(t *testing.T) {
			payload := map[string]interface{}{
				"topic":       topic,
				"style":       "minimalist",
				"targetCount": 3,
			}

			resp, body, err := client.POST("/infographics/insert-one", payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi tạo batch record: %v", err)
			}

			if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
				var result map[string]interface{}
				err = json.Unmarshal(body, &result)
				assert.NoError(t, err, "Phải parse được JSON response")

				data, ok := result["data"].(map[string]interface{})
				if ok {
					id, ok := data["id"].(string)
					if ok {
						batchID = id
						fmt.Printf("✅ CREATE batch record thành công, ID: %s\n", batchID)
					}
					// Status mặc định lấy từ struct tag của model
					assert.Equal(t, "pending", data["status"], "Batch mới tạo phải ở trạng thái pending")
				}
				assert.Equal(t, "success", result["status"], "Status phải là success")
			} else {
				t.Errorf("❌ CREATE batch record thất bại (status: %d, body: %s)", resp.StatusCode, string(body))
			}
		})

		// READ: Đọc batch record theo ID
		t.Run("READ - Đọc batch record theo ID", func(t *testing.T) {
			if batchID == "" {
				t.Skip("Skipping: Chưa có batch ID")
			}

			resp, body, err := client.GET(fmt.Sprintf("/infographics/find-by-id/%s", batchID))
			if err != nil {
				t.Fatalf("❌ Lỗi khi đọc batch record: %v", err)
			}

			if resp.StatusCode == http.StatusOK {
				var result map[string]interface{}
				err = json.Unmarshal(body, &result)
				assert.NoError(t, err, "Phải parse được JSON response")
				assert.Equal(t, "success", result["status"], "Status phải là success")

				if data, ok := result["data"].(map[string]interface{}); ok {
					assert.Equal(t, topic, data["topic"], "Topic phải khớp với lúc tạo")
				}
				fmt.Printf("✅ READ batch record thành công\n")
			} else {
				t.Errorf("❌ READ batch record thất bại (status: %d, body: %s)", resp.StatusCode, string(body))
			}
		})

		// READ: Phân trang danh sách batch
		t.Run("READ - Phân trang danh sách batch", func(t *testing.T) {
			resp, body, err := client.GET("/infographics/find-with-pagination?page=1&limit=5")
			if err != nil {
				t.Fatalf("❌ Lỗi khi phân trang batch: %v", err)
			}

			if resp.StatusCode == http.StatusOK {
				var result map[string]interface{}
				err = json.Unmarshal(body, &result)
				assert.NoError(t, err, "Phải parse được JSON response")
				assert.Equal(t, "success", result["status"], "Status phải là success")
				fmt.Printf("✅ Phân trang batch thành công\n")
			} else {
				t.Errorf("❌ Phân trang batch thất bại (status: %d, body: %s)", resp.StatusCode, string(body))
			}
		})

		// COUNT: Đếm batch theo filter
		t.Run("COUNT - Đếm batch theo topic", func(t *testing.T) {
			if batchID == "" {
				t.Skip("Skipping: Chưa có batch ID")
			}

			filter := url.QueryEscape(fmt.Sprintf(`{"topic": %q}`, topic))
			resp, body, err := client.GET("/infographics/count?filter=" + filter)
			if err != nil {
				t.Fatalf("❌ Lỗi khi đếm batch: %v", err)
			}

			if resp.StatusCode == http.StatusOK {
				var result map[string]interface{}
				err = json.Unmarshal(body, &result)
				assert.NoError(t, err, "Phải parse được JSON response")
				assert.Equal(t, "success", result["status"], "Status phải là success")
				assert.Equal(t, float64(1), result["data"], "Phải đếm được đúng 1 batch vừa tạo")
				fmt.Printf("✅ COUNT batch thành công\n")
			} else {
				t.Errorf("❌ COUNT batch thất bại (status: %d, body: %s)", resp.StatusCode, string(body))
			}
		})

		// UPDATE: Cập nhật batch record
		t.Run("UPDATE - Cập nhật batch record", func(t *testing.T) {
			if batchID == "" {
				t.Skip("Skipping: Chưa có batch ID")
			}

			payload := map[string]interface{}{
				"status": "failed",
				"error":  "integration test update",
			}

			resp, body, err := client.PUT(fmt.Sprintf("/infographics/update-by-id/%s", batchID), payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi cập nhật batch record: %v", err)
			}

			if resp.StatusCode == http.StatusOK {
				var result map[string]interface{}
				err = json.Unmarshal(body, &result)
				assert.NoError(t, err, "Phải parse được JSON response")
				assert.Equal(t, "success", result["status"], "Status phải là success")

				if data, ok := result["data"].(map[string]interface{}); ok {
					assert.Equal(t, "failed", data["status"], "Status của batch phải được cập nhật")
				}
				fmt.Printf("✅ UPDATE batch record thành công\n")
			} else {
				t.Errorf("❌ UPDATE batch record thất bại (status: %d, body: %s)", resp.StatusCode, string(body))
			}
		})

		// UPDATE: Status ngoài danh sách cho phép phải bị từ chối
		t.Run("UPDATE - Status không hợp lệ", func(t *testing.T) {
			if batchID == "" {
				t.Skip("Skipping: Chưa có batch ID")
			}

			payload := map[string]interface{}{
				"status": "running",
			}

			resp, body, err := client.PUT(fmt.Sprintf("/infographics/update-by-id/%s", batchID), payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi gửi request: %v", err)
			}

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "Status ngoài oneof phải trả về 400, body: %s", string(body))
			fmt.Printf("✅ Status không hợp lệ bị từ chối đúng\n")
		})

		// DELETE: Xóa batch record
		t.Run("DELETE - Xóa batch record", func(t *testing.T) {
			if batchID == "" {
				t.Skip("Skipping: Chưa có batch ID")
			}

			resp, body, err := client.DELETE(fmt.Sprintf("/infographics/delete-by-id/%s", batchID))
			if err != nil {
				t.Fatalf("❌ Lỗi khi xóa batch record: %v", err)
			}

			if resp.StatusCode == http.StatusOK {
				var result map[string]interface{}
				err = json.Unmarshal(body, &result)
				assert.NoError(t, err, "Phải parse được JSON response")
				assert.Equal(t, "success", result["status"], "Status phải là success")
				fmt.Printf("✅ DELETE batch record thành công\n")
			} else {
				t.Errorf("❌ DELETE batch record thất bại (status: %d, body: %s)", resp.StatusCode, string(body))
			}
		})
	})

	// ============================================
	// TEST GENERATE ENDPOINT (CHỈ VALIDATE)
	// Chạy generate thật cần GEMINI_API_KEY và Chrome headless,
	// để cho môi trường staging; ở đây chỉ kiểm tra validate input.
	// ============================================
	t.Run("🎨 Generate Input Validation", func(t *testing.T) {
		t.Run("Thiếu prompt", func(t *testing.T) {
			resp, body, err := client.POST("/infographics/generate", map[string]interface{}{})
			if err != nil {
				t.Fatalf("❌ Lỗi khi gửi request: %v", err)
			}

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "Thiếu prompt phải trả về 400, body: %s", string(body))

			var result map[string]interface{}
			err = json.Unmarshal(body, &result)
			assert.NoError(t, err, "Phải parse được JSON response")
			assert.Equal(t, "error", result["status"], "Status phải là error")
			fmt.Printf("✅ Thiếu prompt bị từ chối đúng\n")
		})

		t.Run("VariantCount vượt giới hạn", func(t *testing.T) {
			payload := map[string]interface{}{
				"prompt":       "Năng lượng tái tạo",
				"variantCount": 99,
			}

			resp, body, err := client.POST("/infographics/generate", payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi gửi request: %v", err)
			}

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "variantCount > 5 phải trả về 400, body: %s", string(body))
			fmt.Printf("✅ VariantCount vượt giới hạn bị từ chối đúng\n")
		})
	})
}
