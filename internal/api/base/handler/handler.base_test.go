// Package basehdl - Test validate input, validate filter, normalize ObjectID và transform DTO sang model.
package basehdl

import (
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"meta_infographic/internal/global"
)

type noteModel struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Topic     string             `json:"topic" bson:"topic"`
	Status    string             `json:"status" bson:"status"`
	Count     int                `json:"count" bson:"count"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
}

type noteCreate struct {
	Topic string `json:"topic" validate:"required"`
	Count int    `json:"count,omitempty"`
}

type noteUpdate struct {
	Status string `json:"status,omitempty"`
}

func TestMain(m *testing.M) {
	global.InitValidator()
	os.Exit(m.Run())
}

func newTestHandler() *BaseHandler[noteModel, noteCreate, noteUpdate] {
	return NewBaseHandler[noteModel, noteCreate, noteUpdate](nil)
}

func TestValidateInput_ThieuTruongBatBuoc(t *testing.T) {
	h := newTestHandler()

	if err := h.ValidateInput(&noteCreate{}); err == nil {
		t.Error("input thiếu trường required phải bị từ chối")
	}
	if err := h.ValidateInput(&noteCreate{Topic: "chủ đề"}); err != nil {
		t.Errorf("input hợp lệ không được trả về lỗi: %v", err)
	}
}

func TestValidateInput_TagMaxLength(t *testing.T) {
	type taggedInput struct {
		Name string `maxLength:"5"`
	}

	h := newTestHandler()

	if err := h.ValidateInput(&taggedInput{Name: "abcdef"}); err == nil {
		t.Error("string vượt maxLength phải bị từ chối")
	}
	if err := h.ValidateInput(&taggedInput{Name: "abcde"}); err != nil {
		t.Errorf("string đúng giới hạn không được trả về lỗi: %v", err)
	}
}

func TestValidateInput_TagMinMax(t *testing.T) {
	type boundedInput struct {
		Count int `min:"1" max:"5"`
	}

	h := newTestHandler()

	if err := h.ValidateInput(&boundedInput{Count: 0}); err == nil {
		t.Error("số nhỏ hơn min phải bị từ chối")
	}
	if err := h.ValidateInput(&boundedInput{Count: 6}); err == nil {
		t.Error("số lớn hơn max phải bị từ chối")
	}
	if err := h.ValidateInput(&boundedInput{Count: 3}); err != nil {
		t.Errorf("số trong khoảng không được trả về lỗi: %v", err)
	}
}

func TestNormalizeFilter_ChuyenStringThanhObjectID(t *testing.T) {
	h := newTestHandler()
	hexID := primitive.NewObjectID().Hex()

	normalized := h.normalizeFilter(map[string]interface{}{
		"batchId": hexID,
		"topic":   hexID, // field không phải ID: giữ nguyên string dù trông giống ObjectId
	})

	if _, ok := normalized["batchId"].(primitive.ObjectID); !ok {
		t.Errorf("batchId phải được chuyển thành ObjectID, có %T", normalized["batchId"])
	}
	if _, ok := normalized["topic"].(string); !ok {
		t.Errorf("topic phải giữ nguyên string, có %T", normalized["topic"])
	}
}

func TestNormalizeFilter_ExtendedJSON(t *testing.T) {
	h := newTestHandler()
	hexID := primitive.NewObjectID().Hex()

	normalized := h.normalizeFilter(map[string]interface{}{
		"_id": map[string]interface{}{"$oid": hexID},
	})

	objID, ok := normalized["_id"].(primitive.ObjectID)
	if !ok {
		t.Fatalf("_id dạng {$oid} phải được chuyển thành ObjectID, có %T", normalized["_id"])
	}
	if objID.Hex() != hexID {
		t.Errorf("ObjectID sai: muốn %s, có %s", hexID, objID.Hex())
	}
}

func TestNormalizeFilter_OperatorIn(t *testing.T) {
	h := newTestHandler()
	hexA := primitive.NewObjectID().Hex()
	hexB := primitive.NewObjectID().Hex()

	normalized := h.normalizeFilter(map[string]interface{}{
		"batchId": map[string]interface{}{
			"$in": []interface{}{hexA, hexB, "khong-phai-hex"},
		},
	})

	inMap, ok := normalized["batchId"].(map[string]interface{})
	if !ok {
		t.Fatalf("giá trị operator phải giữ dạng map, có %T", normalized["batchId"])
	}
	arr, ok := inMap["$in"].([]interface{})
	if !ok || len(arr) != 3 {
		t.Fatalf("$in phải giữ đủ 3 phần tử, có %v", inMap["$in"])
	}
	if _, ok := arr[0].(primitive.ObjectID); !ok {
		t.Errorf("phần tử hex hợp lệ trong $in phải thành ObjectID, có %T", arr[0])
	}
	if _, ok := arr[2].(string); !ok {
		t.Errorf("phần tử không phải hex phải giữ nguyên string, có %T", arr[2])
	}
}

func TestNormalizeFilter_HexKhongHopLe(t *testing.T) {
	h := newTestHandler()

	normalized := h.normalizeFilter(map[string]interface{}{
		"batchId": "abc123",
	})

	if _, ok := normalized["batchId"].(string); !ok {
		t.Errorf("string không phải ObjectId 24 ký tự phải giữ nguyên, có %T", normalized["batchId"])
	}
}

func TestValidateFilter_TruongBiCam(t *testing.T) {
	h := newTestHandler()

	for _, field := range []string{"password", "token", "secret", "key", "hash"} {
		if err := h.validateFilter(map[string]interface{}{field: "x"}); err == nil {
			t.Errorf("filter theo trường %s phải bị từ chối", field)
		}
	}
}

func TestValidateFilter_Operator(t *testing.T) {
	h := newTestHandler()

	if err := h.validateFilter(map[string]interface{}{
		"count": map[string]interface{}{"$gte": float64(1)},
	}); err != nil {
		t.Errorf("operator $gte phải được phép: %v", err)
	}

	if err := h.validateFilter(map[string]interface{}{
		"status": map[string]interface{}{"$where": "this.a == 1"},
	}); err == nil {
		t.Error("operator $where phải bị từ chối")
	}
}

func TestValidateFilter_QuaNhieuTruong(t *testing.T) {
	h := newTestHandler()

	filter := map[string]interface{}{}
	for i := 0; i < 11; i++ {
		filter[string(rune('a'+i))] = i
	}

	if err := h.validateFilter(filter); err == nil {
		t.Error("filter quá 10 trường phải bị từ chối")
	}
}

func TestValidateMongoOptions(t *testing.T) {
	h := newTestHandler()

	if err := h.validateMongoOptions(map[string]interface{}{
		"projection": map[string]interface{}{"topic": float64(1)},
		"sort":       map[string]interface{}{"createdAt": float64(-1)},
		"limit":      float64(20),
		"skip":       float64(0),
	}); err != nil {
		t.Errorf("options hợp lệ không được trả về lỗi: %v", err)
	}

	if err := h.validateMongoOptions(map[string]interface{}{"hint": "x"}); err == nil {
		t.Error("option không nằm trong danh sách cho phép phải bị từ chối")
	}
	if err := h.validateMongoOptions(map[string]interface{}{
		"projection": map[string]interface{}{"password": float64(1)},
	}); err == nil {
		t.Error("projection theo trường bị cấm phải bị từ chối")
	}
	if err := h.validateMongoOptions(map[string]interface{}{
		"sort": map[string]interface{}{"createdAt": float64(2)},
	}); err == nil {
		t.Error("giá trị sort khác 1/-1 phải bị từ chối")
	}
	if err := h.validateMongoOptions(map[string]interface{}{"limit": float64(0)}); err == nil {
		t.Error("limit <= 0 phải bị từ chối")
	}
	if err := h.validateMongoOptions(map[string]interface{}{"limit": float64(2000)}); err == nil {
		t.Error("limit > 1000 phải bị từ chối")
	}
	if err := h.validateMongoOptions(map[string]interface{}{"skip": float64(-1)}); err == nil {
		t.Error("skip âm phải bị từ chối")
	}
}

func TestTransformCreateInputToModel(t *testing.T) {
	h := newTestHandler()

	model, err := h.TransformCreateInputToModel(&noteCreate{Topic: "chủ đề", Count: 2})
	if err != nil {
		t.Fatalf("TransformCreateInputToModel trả về lỗi: %v", err)
	}
	if model.Topic != "chủ đề" || model.Count != 2 {
		t.Errorf("model thiếu dữ liệu từ input: %+v", model)
	}
	if !model.ID.IsZero() {
		t.Error("ID phải giữ zero value, service mới là nơi gán")
	}
	if model.CreatedAt != 0 {
		t.Error("CreatedAt phải giữ zero value")
	}
}

func TestTransformUpdateInputToModel(t *testing.T) {
	h := newTestHandler()

	model, err := h.TransformUpdateInputToModel(&noteUpdate{Status: "completed"})
	if err != nil {
		t.Fatalf("TransformUpdateInputToModel trả về lỗi: %v", err)
	}
	if model.Status != "completed" {
		t.Errorf("Status sai: %+v", model)
	}
	if model.Topic != "" {
		t.Error("field không có trong input phải giữ zero value")
	}
}
