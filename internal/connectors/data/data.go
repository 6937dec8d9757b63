// Package data bundles the fixture datasets backing the built-in
// connectors. Each dataset mirrors the shape of the source it stands
// in for, so connector translation code exercises the real schemas.
package data

var TripComData = []byte(`{
  "itineraries": [
    {
      "itinerary_id": "TC-311",
      "carrier": {"code": "FD", "name": "Thai AirAsia"},
      "segments": [
        {"flight_no": "FD 311", "from": "KUL", "to": "BKK", "depart": "2026-03-20T08:40:00+08:00", "arrive": "2026-03-20T09:55:00+07:00"}
      ],
      "stop_count": 0,
      "cabin_class": "economy",
      "fare": {"brand": "Value", "base": 260.0, "taxes": 45.0, "fees": 15.0, "total": 320.0, "currency": "MYR"},
      "baggage_allowance": "20kg checked + 7kg cabin",
      "fare_conditions": "Refundable with MYR 200 fee; date changes MYR 100",
      "deeplink": "https://www.trip.com/flights/kul-bkk/fd-311"
    },
    {
      "itinerary_id": "TC-418",
      "carrier": {"code": "TG", "name": "Thai Airways"},
      "segments": [
        {"flight_no": "TG 418", "from": "KUL", "to": "BKK", "depart": "2026-03-20T10:05:00+08:00", "arrive": "2026-03-20T11:15:00+07:00"}
      ],
      "stop_count": 0,
      "cabin_class": "economy",
      "fare": {"brand": "Flexi", "base": 340.0, "taxes": 52.0, "fees": 8.0, "total": 400.0, "currency": "MYR"},
      "baggage_allowance": "30kg checked + 7kg cabin",
      "fare_conditions": "Fully refundable; free date changes",
      "deeplink": "https://www.trip.com/flights/kul-bkk/tg-418"
    },
    {
      "itinerary_id": "TC-788",
      "carrier": {"code": "MH", "name": "Malaysia Airlines"},
      "segments": [
        {"flight_no": "MH 788", "from": "KUL", "to": "BKK", "depart": "2026-03-20T14:20:00+08:00", "arrive": "2026-03-20T15:30:00+07:00"}
      ],
      "stop_count": 0,
      "cabin_class": "economy",
      "fare": {"brand": "Basic", "base": 300.0, "taxes": 50.0, "fees": 15.0, "total": 365.0, "currency": "MYR"},
      "baggage_allowance": "30kg checked",
      "fare_conditions": "Non-refundable; date changes MYR 150",
      "deeplink": "https://www.trip.com/flights/kul-bkk/mh-788"
    },
    {
      "itinerary_id": "TC-455",
      "carrier": {"code": "TR", "name": "Scoot"},
      "segments": [
        {"flight_no": "TR 455", "from": "KUL", "to": "SIN", "depart": "2026-03-20T07:30:00+08:00", "arrive": "2026-03-20T08:35:00+08:00"},
        {"flight_no": "TR 866", "from": "SIN", "to": "BKK", "depart": "2026-03-20T10:40:00+08:00", "arrive": "2026-03-20T12:05:00+07:00"}
      ],
      "stop_count": 1,
      "cabin_class": "economy",
      "fare": {"brand": "Economy Lite", "base": 240.0, "taxes": 35.0, "fees": 10.0, "total": 285.0, "currency": "MYR"},
      "baggage_allowance": "Cabin bag only",
      "fare_conditions": "Non-refundable; no changes",
      "deeplink": "https://www.trip.com/flights/kul-bkk/tr-455-866"
    },
    {
      "itinerary_id": "TC-415",
      "carrier": {"code": "TG", "name": "Thai Airways"},
      "segments": [
        {"flight_no": "TG 415", "from": "BKK", "to": "KUL", "depart": "2026-03-25T13:00:00+07:00", "arrive": "2026-03-25T16:10:00+08:00"}
      ],
      "stop_count": 0,
      "cabin_class": "economy",
      "fare": {"brand": "Flexi", "base": 335.0, "taxes": 50.0, "fees": 8.0, "total": 393.0, "currency": "MYR"},
      "baggage_allowance": "30kg checked + 7kg cabin",
      "fare_conditions": "Fully refundable; free date changes",
      "deeplink": "https://www.trip.com/flights/bkk-kul/tg-415"
    },
    {
      "itinerary_id": "TC-603",
      "carrier": {"code": "MH", "name": "Malaysia Airlines"},
      "segments": [
        {"flight_no": "MH 603", "from": "KUL", "to": "SIN", "depart": "2026-04-02T09:10:00+08:00", "arrive": "2026-04-02T10:10:00+08:00"}
      ],
      "stop_count": 0,
      "cabin_class": "economy",
      "fare": {"brand": "Basic", "base": 150.0, "taxes": 22.0, "fees": 8.0, "total": 180.0, "currency": "MYR"},
      "baggage_allowance": "30kg checked",
      "fare_conditions": "Non-refundable",
      "deeplink": "https://www.trip.com/flights/kul-sin/mh-603"
    }
  ]
}`)

var AirAsiaData = []byte(`{
  "flights": [
    {
      "flight_id": "AA-311",
      "airline_code": "FD",
      "airline_name": "Thai AirAsia",
      "flight_numbers": ["FD 311"],
      "origin": "KUL",
      "destination": "BKK",
      "depart_time": "2026-03-20T08:40:00+08:00",
      "arrive_time": "2026-03-20T09:55:00+07:00",
      "stops": 0,
      "travel_class": "economy",
      "price_total": 298.0,
      "currency_code": "MYR",
      "baggage_info": "7kg cabin bag included",
      "booking_link": "https://www.airasia.com/book/fd-311"
    },
    {
      "flight_id": "AA-882",
      "airline_code": "AK",
      "airline_name": "AirAsia",
      "flight_numbers": ["AK 882"],
      "origin": "KUL",
      "destination": "BKK",
      "depart_time": "2026-03-20T09:35:00+08:00",
      "arrive_time": "2026-03-20T10:45:00+07:00",
      "stops": 0,
      "travel_class": "economy",
      "price_total": 312.0,
      "currency_code": "MYR",
      "baggage_info": "7kg cabin bag included",
      "booking_link": "https://www.airasia.com/book/ak-882"
    },
    {
      "flight_id": "AA-890",
      "airline_code": "AK",
      "airline_name": "AirAsia",
      "flight_numbers": ["AK 890"],
      "origin": "KUL",
      "destination": "BKK",
      "depart_time": "2026-03-20T18:10:00+08:00",
      "arrive_time": "2026-03-20T19:20:00+07:00",
      "stops": 0,
      "travel_class": "economy",
      "price_total": 275.0,
      "currency_code": "MYR",
      "baggage_info": "7kg cabin bag included",
      "booking_link": "https://www.airasia.com/book/ak-890"
    },
    {
      "flight_id": "AA-312",
      "airline_code": "FD",
      "airline_name": "Thai AirAsia",
      "flight_numbers": ["FD 312"],
      "origin": "BKK",
      "destination": "KUL",
      "depart_time": "2026-03-25T10:30:00+07:00",
      "arrive_time": "2026-03-25T13:40:00+08:00",
      "stops": 0,
      "travel_class": "economy",
      "price_total": 289.0,
      "currency_code": "MYR",
      "baggage_info": "7kg cabin bag included",
      "booking_link": "https://www.airasia.com/book/fd-312"
    },
    {
      "flight_id": "AA-703",
      "airline_code": "AK",
      "airline_name": "AirAsia",
      "flight_numbers": ["AK 703"],
      "origin": "KUL",
      "destination": "SIN",
      "depart_time": "2026-04-02T08:20:00+08:00",
      "arrive_time": "2026-04-02T09:25:00+08:00",
      "stops": 0,
      "travel_class": "economy",
      "price_total": 165.0,
      "currency_code": "MYR",
      "baggage_info": "Cabin bag only",
      "booking_link": "javascript:void(0)"
    }
  ]
}`)

var MynztripData = []byte(`{
  "results": [
    {
      "ref": "MZ-780",
      "airline": "Malaysia Airlines",
      "flights": ["MH 780"],
      "route": {"from": "KUL", "to": "BKK"},
      "departure_local": "2026-03-20T11:50:00",
      "arrival_local": "2026-03-20T13:00:00",
      "stop_count": 0,
      "cabin": "economy",
      "fare_rules": "Non-refundable; date changes MYR 150",
      "price": {"amount": 358.0, "currency": "MYR"},
      "link": "https://www.mynztrip.example/deeplink/mh-780"
    },
    {
      "ref": "MZ-418",
      "airline": "Thai Airways",
      "flights": ["TG 418"],
      "route": {"from": "KUL", "to": "BKK"},
      "departure_local": "2026-03-20T10:05:00",
      "arrival_local": "2026-03-20T11:15:00",
      "stop_count": 0,
      "cabin": "economy",
      "fare_rules": "Refundable with fee",
      "price": {"amount": 395.0, "currency": "MYR"},
      "link": "https://www.mynztrip.example/deeplink/tg-418"
    },
    {
      "ref": "MZ-107",
      "airline": "Singapore Airlines",
      "flights": ["SQ 107"],
      "route": {"from": "KUL", "to": "SIN"},
      "departure_local": "2026-04-02T11:35:00",
      "arrival_local": "2026-04-02T12:40:00",
      "stop_count": 0,
      "cabin": "economy",
      "fare_rules": "Refundable; changes free within 24h",
      "price": {"amount": 210.0, "currency": "MYR"},
      "link": "https://www.mynztrip.example/deeplink/sq-107"
    }
  ]
}`)
